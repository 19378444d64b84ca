package contracts

import (
	"context"
	"time"
)

// PaymentEvent is the lifecycle notification published for the hosting
// platform.
type PaymentEvent struct {
	TxnID      string    `json:"txnid"`
	Status     string    `json:"status"`
	MihpayID   string    `json:"mihpayid,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PaymentEventPublisher interface {
	Publish(ctx context.Context, event *PaymentEvent) error
}

// WebhookAuditArchive keeps rejected webhook payloads for forensics.
type WebhookAuditArchive interface {
	ArchiveRejected(ctx context.Context, correlationID string, rawPayload []byte) error
}
