package responses

// GatewayStatus is the outcome of a verify_payment call for one txnid.
// NotFound is set when the gateway answered but the txnid was absent from
// its transaction_details map.
type GatewayStatus struct {
	Success            bool
	NotFound           bool
	Status             string
	MihpayID           string
	Message            string
	TransactionDetails map[string]interface{}
}

// GatewayRefundResult is the parsed response of a refund submission.
type GatewayRefundResult struct {
	Success              bool
	Message              string
	RequestID            string
	GatewayTransactionID string
	ErrorCode            string
}
