package requests

// GatewayRefund is the payload for a cancel_refund_transaction call. TokenID
// must be unique per refund attempt so the gateway never collapses a retry
// into a stale submission.
type GatewayRefund struct {
	GatewayTransactionID string
	TokenID              string
	Amount               string
}
