package models

import (
	"time"
)

// PaymentStatus is the lifecycle state of a payment session. Transitions
// are monotonic forward; failed and cancelled are terminal, refunded is
// terminal for refund purposes.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusCaptured   PaymentStatus = "captured"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

var allowedTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusAuthorized, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusAuthorized: {PaymentStatusCaptured, PaymentStatusCancelled},
	PaymentStatusCaptured:   {PaymentStatusRefunded, PaymentStatusCancelled},
}

// CanTransition reports whether moving from s to target is a legal forward
// transition.
func (s PaymentStatus) CanTransition(target PaymentStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition can leave s.
func (s PaymentStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

type PaymentSession struct {
	TxnID                string                 `json:"txnid" bson:"txnid"`
	Amount               string                 `json:"amount" bson:"amount"`
	ProductInfo          string                 `json:"productinfo" bson:"productinfo"`
	Firstname            string                 `json:"firstname" bson:"firstname"`
	Email                string                 `json:"email" bson:"email"`
	Phone                string                 `json:"phone" bson:"phone"`
	Hash                 string                 `json:"hash" bson:"hash"`
	PaymentURL           string                 `json:"payment_url" bson:"payment_url"`
	SuccessURL           string                 `json:"surl" bson:"surl"`
	FailureURL           string                 `json:"furl" bson:"furl"`
	Status               PaymentStatus          `json:"status" bson:"status"`
	CountryCode          string                 `json:"country_code" bson:"country_code"`
	UDF1                 string                 `json:"udf1,omitempty" bson:"udf1,omitempty"`
	UDF2                 string                 `json:"udf2,omitempty" bson:"udf2,omitempty"`
	UDF3                 string                 `json:"udf3,omitempty" bson:"udf3,omitempty"`
	UDF4                 string                 `json:"udf4,omitempty" bson:"udf4,omitempty"`
	UDF5                 string                 `json:"udf5,omitempty" bson:"udf5,omitempty"`
	GatewayTransactionID string                 `json:"gateway_transaction_id,omitempty" bson:"gateway_transaction_id,omitempty"`
	GatewayResponse      map[string]interface{} `json:"gateway_response,omitempty" bson:"gateway_response,omitempty"`
	FailureReason        string                 `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	Refund               *RefundRecord          `json:"refund,omitempty" bson:"refund,omitempty"`
	CreatedAt            time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at" bson:"updated_at"`
}

// RefundRecord is attached to a session when a refund submission succeeds.
type RefundRecord struct {
	TokenID          string                 `json:"token_id" bson:"token_id"`
	Amount           string                 `json:"amount" bson:"amount"`
	GatewayRequestID string                 `json:"gateway_request_id" bson:"gateway_request_id"`
	RawResponse      map[string]interface{} `json:"raw_response,omitempty" bson:"raw_response,omitempty"`
	SubmittedAt      time.Time              `json:"submitted_at" bson:"submitted_at"`
}
