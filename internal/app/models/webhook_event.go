package models

// WebhookEvent is the canonical record produced by webhook normalization.
// It exists only for the duration of one verification and classification
// pass.
type WebhookEvent struct {
	TxnID             string
	Status            string
	Amount            string
	Email             string
	Firstname         string
	ProductInfo       string
	Hash              string
	UDF1              string
	UDF2              string
	UDF3              string
	UDF4              string
	UDF5              string
	MihpayID          string
	Mode              string
	Error             string
	ErrorMessage      string
	AdditionalCharges string
}

// CorrelationID is the identifier the platform uses to locate the session:
// udf1 when present, otherwise the txnid.
func (e *WebhookEvent) CorrelationID() string {
	if e.UDF1 != "" {
		return e.UDF1
	}
	return e.TxnID
}

// WebhookAction is the classification outcome for one webhook event.
type WebhookAction string

const (
	WebhookActionAuthorized   WebhookAction = "authorized"
	WebhookActionFailed       WebhookAction = "failed"
	WebhookActionAcknowledged WebhookAction = "acknowledged"
	WebhookActionManualReview WebhookAction = "manual_review"
	WebhookActionUnsupported  WebhookAction = "unsupported"
)
