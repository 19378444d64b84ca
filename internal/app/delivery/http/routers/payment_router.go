package routers

import (
	"paybridge-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachPaymentRoutes(router chi.Router, ctrl *controllers.PaymentController) {
	router.Post("/", ctrl.InitiatePayment)
	router.Get("/{txnid}", ctrl.GetPayment)
	router.Get("/{txnid}/verify", ctrl.VerifyPayment)
	router.Post("/{txnid}/capture", ctrl.CapturePayment)
	router.Post("/{txnid}/refund", ctrl.RefundPayment)
	router.Post("/{txnid}/cancel", ctrl.CancelPayment)
	router.Patch("/{txnid}/amount", ctrl.UpdatePaymentAmount)
}
