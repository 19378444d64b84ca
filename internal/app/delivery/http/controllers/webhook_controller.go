package controllers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"paybridge-service/internal/app/contracts"
	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/exceptions"
	"paybridge-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type WebhookController struct {
	Log            *zap.Logger
	WebhookUsecase contracts.WebhookUsecase
}

var (
	webhookControllerInstance *WebhookController
	onceWebhookController     sync.Once
)

func NewWebhookController(logger *zap.Logger, webhookUsecase contracts.WebhookUsecase) *WebhookController {
	onceWebhookController.Do(func() {
		webhookControllerInstance = &WebhookController{
			Log:            logger,
			WebhookUsecase: webhookUsecase,
		}
	})
	return webhookControllerInstance
}

// HandleGatewayNotification processes POST /webhooks/payu. The gateway
// delivers either a form-encoded body or JSON, sometimes with the real
// fields nested under a "payload" object; the usecase normalizes all three.
func (ctrl *WebhookController) HandleGatewayNotification(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("WebhookController requestID not found in context",
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	utils.LogSecurityEvent(ctrl.Log, "gateway_webhook_received", requestID, "info",
		zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		zap.String(constvars.LoggingUserAgentKey, r.UserAgent()),
	)

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseForm(err))
		return
	}
	defer r.Body.Close()

	notification := new(contracts.WebhookNotification)
	contentType := r.Header.Get(constvars.HeaderContentType)
	if strings.HasPrefix(contentType, constvars.MIMEApplicationJSON) {
		envelope := map[string]interface{}{}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
			return
		}
		notification.Envelope = envelope
	} else {
		notification.RawBody = string(raw)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	outcome, err := ctrl.WebhookUsecase.HandleNotification(ctx, notification)
	if err != nil {
		ctrl.Log.Error("WebhookController failed to process notification",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "gateway_webhook_processed", requestID,
		zap.String(constvars.LoggingTxnIDKey, outcome.TxnID),
		zap.String(constvars.LoggingWebhookKindKey, string(outcome.Action)),
		zap.Bool("duplicate", outcome.Duplicate),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)

	message := constvars.WebhookProcessedSuccessfully
	if outcome.Duplicate {
		message = constvars.WebhookAcknowledged
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, map[string]interface{}{
		"action":    string(outcome.Action),
		"txnid":     outcome.TxnID,
		"duplicate": outcome.Duplicate,
	})
}
