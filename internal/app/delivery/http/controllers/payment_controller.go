package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"paybridge-service/internal/app/config"
	"paybridge-service/internal/app/contracts"
	"paybridge-service/internal/app/models"
	"paybridge-service/internal/app/services/core/sessions"
	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/dto/requests"
	"paybridge-service/internal/pkg/dto/responses"
	"paybridge-service/internal/pkg/exceptions"
	"paybridge-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type PaymentController struct {
	Log                 *zap.Logger
	SessionUsecase      contracts.SessionUsecase
	SessionRepository   contracts.SessionRepository
	VerificationUsecase contracts.VerificationUsecase
	InternalConfig      *config.InternalConfig
}

var (
	paymentControllerInstance *PaymentController
	oncePaymentController     sync.Once
)

func NewPaymentController(
	logger *zap.Logger,
	sessionUsecase contracts.SessionUsecase,
	sessionRepository contracts.SessionRepository,
	verificationUsecase contracts.VerificationUsecase,
	internalConfig *config.InternalConfig,
) *PaymentController {
	oncePaymentController.Do(func() {
		paymentControllerInstance = &PaymentController{
			Log:                 logger,
			SessionUsecase:      sessionUsecase,
			SessionRepository:   sessionRepository,
			VerificationUsecase: verificationUsecase,
			InternalConfig:      internalConfig,
		}
	})
	return paymentControllerInstance
}

func (ctrl *PaymentController) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("PaymentController.InitiatePayment requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("PaymentController.InitiatePayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.InitiatePayment)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("PaymentController.InitiatePayment error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	session, err := ctrl.SessionUsecase.Initiate(ctx, request)
	if err != nil {
		ctrl.Log.Error("PaymentController.InitiatePayment error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "payment_initiated", requestID,
		zap.String(constvars.LoggingTxnIDKey, session.TxnID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.PaymentInitiatedSuccessfully, &responses.Checkout{
		TxnID:        session.TxnID,
		Status:       string(session.Status),
		PaymentURL:   session.PaymentURL,
		CheckoutForm: sessions.CheckoutForm(ctrl.InternalConfig.PayU.MerchantKey, session),
	})
}

func (ctrl *PaymentController) GetPayment(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := ctrl.loadSession(w, r)
	if !ok {
		return
	}

	ctrl.Log.Debug("PaymentController.GetPayment resolved session",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTxnIDKey, session.TxnID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentSessionFetched, sessionView(session))
}

func (ctrl *PaymentController) CapturePayment(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := ctrl.loadSession(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	session, err := ctrl.SessionUsecase.Capture(ctx, session)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "payment_captured", requestID,
		zap.String(constvars.LoggingTxnIDKey, session.TxnID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentCapturedSuccessfully, sessionView(session))
}

func (ctrl *PaymentController) RefundPayment(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := ctrl.loadSession(w, r)
	if !ok {
		return
	}

	request := new(requests.RefundPayment)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	txnid := session.TxnID
	session, err := ctrl.SessionUsecase.Refund(ctx, session, request.Amount)
	if err != nil {
		ctrl.Log.Error("PaymentController.RefundPayment error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTxnIDKey, txnid),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "payment_refunded", requestID,
		zap.String(constvars.LoggingTxnIDKey, session.TxnID),
		zap.String(constvars.LoggingMihpayIDKey, session.GatewayTransactionID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentRefundedSuccessfully, sessionView(session))
}

func (ctrl *PaymentController) CancelPayment(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := ctrl.loadSession(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	session, err := ctrl.SessionUsecase.Cancel(ctx, session)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "payment_cancelled", requestID,
		zap.String(constvars.LoggingTxnIDKey, session.TxnID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentCancelledSuccessfully, sessionView(session))
}

func (ctrl *PaymentController) UpdatePaymentAmount(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := ctrl.loadSession(w, r)
	if !ok {
		return
	}

	request := new(requests.UpdatePaymentAmount)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	session, err := ctrl.SessionUsecase.UpdateAmount(ctx, session, request.Amount)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "payment_amount_updated", requestID,
		zap.String(constvars.LoggingTxnIDKey, session.TxnID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentAmountUpdated, &responses.Checkout{
		TxnID:        session.TxnID,
		Status:       string(session.Status),
		PaymentURL:   session.PaymentURL,
		CheckoutForm: sessions.CheckoutForm(ctrl.InternalConfig.PayU.MerchantKey, session),
	})
}

func (ctrl *PaymentController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("PaymentController.VerifyPayment requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	txnid := chi.URLParam(r, "txnid")
	ctrl.Log.Info("PaymentController.VerifyPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTxnIDKey, txnid),
	)

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	result, err := ctrl.VerificationUsecase.VerifyTransaction(ctx, txnid)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentVerifiedSuccessfully, result)
}

func (ctrl *PaymentController) loadSession(w http.ResponseWriter, r *http.Request) (string, *models.PaymentSession, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("PaymentController requestID not found in context",
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return "", nil, false
	}

	txnid := chi.URLParam(r, "txnid")
	session, err := ctrl.SessionRepository.FindByTxnID(r.Context(), txnid)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return requestID, nil, false
	}
	if session == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrSessionNotFound(txnid))
		return requestID, nil, false
	}
	return requestID, session, true
}

func (ctrl *PaymentController) requestTimeout() time.Duration {
	seconds := ctrl.InternalConfig.App.RequestTimeoutInSeconds
	if seconds <= 0 {
		seconds = 60
	}
	return time.Duration(seconds) * time.Second
}

func sessionView(session *models.PaymentSession) *responses.SessionView {
	return &responses.SessionView{
		TxnID:                session.TxnID,
		Status:               string(session.Status),
		Amount:               session.Amount,
		GatewayTransactionID: session.GatewayTransactionID,
		PaymentURL:           session.PaymentURL,
	}
}
