package routers

import (
	"paybridge-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachWebhookRoutes(router chi.Router, ctrl *controllers.WebhookController) {
	router.Post("/payu", ctrl.HandleGatewayNotification)
}
