package webhook

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"paybridge-service/internal/app/contracts"
	"paybridge-service/internal/app/models"
	"paybridge-service/internal/app/services/shared/payment_gateway"
	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/exceptions"
	"paybridge-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// dedupRetention bounds how long a (mihpayid, status) delivery stays
// suppressed. PayU redelivers for at most a day.
const dedupRetention = 24 * time.Hour

type webhookUsecase struct {
	SessionUsecase    contracts.SessionUsecase
	SessionRepository contracts.SessionRepository
	EventPublisher    contracts.PaymentEventPublisher
	DedupStore        contracts.WebhookDedupStore
	AuditArchive      contracts.WebhookAuditArchive
	HashEngine        *payment_gateway.HashEngine
	Log               *zap.Logger
}

var (
	webhookUsecaseInstance contracts.WebhookUsecase
	onceWebhookUsecase     sync.Once
)

func NewWebhookUsecase(
	sessionUsecase contracts.SessionUsecase,
	sessionRepository contracts.SessionRepository,
	eventPublisher contracts.PaymentEventPublisher,
	dedupStore contracts.WebhookDedupStore,
	auditArchive contracts.WebhookAuditArchive,
	hashEngine *payment_gateway.HashEngine,
	logger *zap.Logger,
) contracts.WebhookUsecase {
	onceWebhookUsecase.Do(func() {
		webhookUsecaseInstance = &webhookUsecase{
			SessionUsecase:    sessionUsecase,
			SessionRepository: sessionRepository,
			EventPublisher:    eventPublisher,
			DedupStore:        dedupStore,
			AuditArchive:      auditArchive,
			HashEngine:        hashEngine,
			Log:               logger,
		}
	})
	return webhookUsecaseInstance
}

func (uc *webhookUsecase) Reconcile(ctx context.Context, notification *contracts.WebhookNotification) (*contracts.WebhookOutcome, error) {
	requestID := utils.GetRequestID(ctx)

	event, rawPayload, err := normalizeNotification(notification)
	if err != nil {
		return nil, err
	}

	// Integrity rejections never surface as errors. The gateway redelivers
	// on non-2xx, and a payload that failed here will fail identically on
	// every redelivery.
	if event.TxnID == "" || event.Status == "" || event.Hash == "" {
		uc.archiveRejected(ctx, event.CorrelationID(), rawPayload)
		utils.LogSecurityEvent(uc.Log, "webhook_missing_fields", requestID, "warning",
			zap.String(constvars.LoggingTxnIDKey, event.TxnID),
		)
		return rejectedOutcome(event, "notification missing txnid, status, or hash"), nil
	}

	verified := uc.HashEngine.VerifyResponse(
		event.Status,
		event.Email,
		event.Firstname,
		event.ProductInfo,
		event.Amount,
		event.TxnID,
		[5]string{event.UDF1, event.UDF2, event.UDF3, event.UDF4, event.UDF5},
		event.Hash,
		event.AdditionalCharges,
	)
	if !verified {
		uc.archiveRejected(ctx, event.CorrelationID(), rawPayload)
		utils.LogSecurityEvent(uc.Log, "webhook_hash_mismatch", requestID, "critical",
			zap.String(constvars.LoggingTxnIDKey, event.TxnID),
			zap.String(constvars.LoggingMihpayIDKey, event.MihpayID),
		)
		return rejectedOutcome(event, "hash verification failed"), nil
	}

	amount := decimal.Zero
	if event.Amount != "" {
		parsed, parseErr := utils.ParseAmount(event.Amount)
		if parseErr == nil {
			amount = parsed
		} else {
			// The amount string passed signature verification, so a parse
			// failure here is anomalous and worth a trace.
			uc.Log.Warn("webhookUsecase amount not parseable on verified payload",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingTxnIDKey, event.TxnID),
				zap.String("amount", event.Amount),
				zap.Error(parseErr),
			)
		}
	}

	outcome := &contracts.WebhookOutcome{
		Action:        classifyStatus(event.Status),
		CorrelationID: event.CorrelationID(),
		TxnID:         event.TxnID,
		MihpayID:      event.MihpayID,
		Amount:        amount,
		Event:         event,
	}

	uc.Log.Info("webhookUsecase.Reconcile classified notification",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTxnIDKey, event.TxnID),
		zap.String(constvars.LoggingMihpayIDKey, event.MihpayID),
		zap.String(constvars.LoggingWebhookKindKey, string(outcome.Action)),
	)
	return outcome, nil
}

func (uc *webhookUsecase) HandleNotification(ctx context.Context, notification *contracts.WebhookNotification) (*contracts.WebhookOutcome, error) {
	requestID := utils.GetRequestID(ctx)

	outcome, err := uc.Reconcile(ctx, notification)
	if err != nil {
		return nil, err
	}

	// Unsupported covers rejected payloads as well as status values the
	// state machine has no mapping for. Neither touches a session.
	if outcome.Action == models.WebhookActionUnsupported {
		if outcome.Reason == "" {
			uc.Log.Warn("webhookUsecase unsupported status",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingTxnIDKey, outcome.TxnID),
				zap.String("status", outcome.Event.Status),
			)
			outcome.Reason = "unsupported notification status"
		}
		return outcome, nil
	}

	if uc.DedupStore != nil && outcome.MihpayID != "" {
		firstSeen, dedupErr := uc.DedupStore.MarkDelivered(ctx, outcome.MihpayID, outcome.Event.Status, dedupRetention)
		if dedupErr != nil {
			// Dedup is an optimization; losing it must not drop a webhook.
			uc.Log.Warn("webhookUsecase dedup store unavailable",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(dedupErr),
			)
		} else if !firstSeen {
			outcome.Duplicate = true
			outcome.Reason = "notification already processed"
			return outcome, nil
		}
	}

	session, err := uc.SessionRepository.FindByCorrelationID(ctx, outcome.CorrelationID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		utils.LogSecurityEvent(uc.Log, "webhook_session_not_found", requestID, "warning",
			zap.String(constvars.LoggingTxnIDKey, outcome.TxnID),
		)
		return nil, exceptions.ErrSessionNotFound(outcome.CorrelationID)
	}

	switch outcome.Action {
	case models.WebhookActionAuthorized:
		if _, err := uc.SessionUsecase.Authorize(ctx, session); err != nil {
			return nil, err
		}
	case models.WebhookActionFailed:
		if err := uc.applyFailure(ctx, session, outcome.Event); err != nil {
			return nil, err
		}
	case models.WebhookActionAcknowledged:
		// Refund webhooks confirm a refund this service itself submitted;
		// the session already transitioned when the submission succeeded.
		outcome.Reason = "refund notification acknowledged"
	case models.WebhookActionManualReview:
		utils.LogSecurityEvent(uc.Log, "webhook_dispute_received", requestID, "critical",
			zap.String(constvars.LoggingTxnIDKey, outcome.TxnID),
			zap.String(constvars.LoggingMihpayIDKey, outcome.MihpayID),
		)
		outcome.Reason = "dispute flagged for manual review"
	}

	return outcome, nil
}

func (uc *webhookUsecase) applyFailure(ctx context.Context, session *models.PaymentSession, event *models.WebhookEvent) error {
	if session.Status.IsTerminal() {
		return nil
	}
	session.Status = models.PaymentStatusFailed
	session.FailureReason = event.ErrorMessage
	if session.FailureReason == "" {
		session.FailureReason = event.Error
	}
	session.GatewayTransactionID = event.MihpayID
	session.UpdatedAt = time.Now()

	if uc.SessionRepository != nil {
		if err := uc.SessionRepository.UpdateSession(ctx, session); err != nil {
			return err
		}
	}
	if uc.EventPublisher != nil {
		err := uc.EventPublisher.Publish(ctx, &contracts.PaymentEvent{
			TxnID:      session.TxnID,
			Status:     string(session.Status),
			MihpayID:   session.GatewayTransactionID,
			Amount:     session.Amount,
			Reason:     session.FailureReason,
			OccurredAt: time.Now(),
		})
		if err != nil {
			uc.Log.Warn("webhookUsecase failed to publish payment event",
				zap.String(constvars.LoggingTxnIDKey, session.TxnID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (uc *webhookUsecase) archiveRejected(ctx context.Context, correlationID string, rawPayload []byte) {
	if uc.AuditArchive == nil {
		return
	}
	if err := uc.AuditArchive.ArchiveRejected(ctx, correlationID, rawPayload); err != nil {
		uc.Log.Warn("webhookUsecase failed to archive rejected payload",
			zap.Error(err),
		)
	}
}

// rejectedOutcome wraps a payload that failed field or hash checks. The
// event is carried along for the caller's logging only.
func rejectedOutcome(event *models.WebhookEvent, reason string) *contracts.WebhookOutcome {
	return &contracts.WebhookOutcome{
		Action:        models.WebhookActionUnsupported,
		CorrelationID: event.CorrelationID(),
		TxnID:         event.TxnID,
		MihpayID:      event.MihpayID,
		Amount:        decimal.Zero,
		Event:         event,
		Reason:        reason,
	}
}

// classifyStatus maps the gateway's status vocabulary onto the actions the
// session state machine understands.
func classifyStatus(status string) models.WebhookAction {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success":
		return models.WebhookActionAuthorized
	case "failure", "failed":
		return models.WebhookActionFailed
	case "refund", "refunded":
		return models.WebhookActionAcknowledged
	case "dispute", "chargeback":
		return models.WebhookActionManualReview
	default:
		return models.WebhookActionUnsupported
	}
}

// normalizeNotification flattens the three delivery shapes into one event.
// Precedence: the raw form-encoded body, then a nested "payload" object,
// then top-level envelope fields.
func normalizeNotification(notification *contracts.WebhookNotification) (*models.WebhookEvent, []byte, error) {
	if notification.RawBody != "" {
		values, err := url.ParseQuery(notification.RawBody)
		if err != nil {
			return nil, []byte(notification.RawBody), exceptions.ErrCannotParseForm(err)
		}
		return eventFromGetter(values.Get), []byte(notification.RawBody), nil
	}

	rawPayload, _ := json.Marshal(notification.Envelope)

	source := notification.Envelope
	if nested, ok := notification.Envelope["payload"].(map[string]interface{}); ok {
		source = nested
	}
	getter := func(key string) string { return stringField(source, key) }
	return eventFromGetter(getter), rawPayload, nil
}

func eventFromGetter(get func(string) string) *models.WebhookEvent {
	event := &models.WebhookEvent{
		TxnID:       get("txnid"),
		Status:      get("status"),
		Amount:      get("amount"),
		Email:       get("email"),
		Firstname:   get("firstname"),
		ProductInfo: get("productinfo"),
		Hash:        get("hash"),
		UDF1:        get("udf1"),
		UDF2:        get("udf2"),
		UDF3:        get("udf3"),
		UDF4:        get("udf4"),
		UDF5:        get("udf5"),
		MihpayID:    get("mihpayid"),
		Mode:        get("mode"),
		Error:       get("error"),
	}
	// PayU is inconsistent about the casing of these two across channels.
	event.ErrorMessage = get("error_Message")
	if event.ErrorMessage == "" {
		event.ErrorMessage = get("error_message")
	}
	event.AdditionalCharges = get("additionalCharges")
	if event.AdditionalCharges == "" {
		event.AdditionalCharges = get("additional_charges")
	}
	return event
}

func stringField(source map[string]interface{}, key string) string {
	switch v := source[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
