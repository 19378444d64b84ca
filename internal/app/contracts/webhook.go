package contracts

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"paybridge-service/internal/app/models"
)

// WebhookNotification is the raw payload as delivered by the platform. The
// gateway has been observed delivering three shapes; precedence during
// normalization is RawBody, then a nested "payload" object inside Envelope,
// then top-level Envelope fields.
type WebhookNotification struct {
	RawBody  string
	Envelope map[string]interface{}
}

// WebhookOutcome is the classification result for one notification.
type WebhookOutcome struct {
	Action        models.WebhookAction
	CorrelationID string
	TxnID         string
	MihpayID      string
	Amount        decimal.Decimal
	Event         *models.WebhookEvent
	Reason        string
	Duplicate     bool
}

type WebhookUsecase interface {
	// Reconcile normalizes, authenticates and classifies a notification
	// without touching any session.
	Reconcile(ctx context.Context, notification *WebhookNotification) (*WebhookOutcome, error)
	// HandleNotification runs Reconcile and applies the outcome to the
	// matching payment session.
	HandleNotification(ctx context.Context, notification *WebhookNotification) (*WebhookOutcome, error)
}

// WebhookDedupStore suppresses re-delivered gateway notifications.
type WebhookDedupStore interface {
	// MarkDelivered returns false when the same delivery was already seen
	// within the retention window.
	MarkDelivered(ctx context.Context, mihpayid, status string, retention time.Duration) (bool, error)
}
