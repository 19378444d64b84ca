package responses

// Checkout is returned from initiate. CheckoutForm holds the exact fields
// the browser must POST to the hosted payment page.
type Checkout struct {
	TxnID        string            `json:"txnid"`
	Status       string            `json:"status"`
	PaymentURL   string            `json:"payment_url"`
	CheckoutForm map[string]string `json:"checkout_form"`
}

// TransactionStatus is the verification service output. Error carries a
// human-readable reason when Success is false.
type TransactionStatus struct {
	Success     bool                   `json:"success"`
	Status      string                 `json:"status,omitempty"`
	Transaction map[string]interface{} `json:"transaction,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// SessionView is the opaque session data handed back to the platform.
type SessionView struct {
	TxnID                string `json:"txnid"`
	Status               string `json:"status"`
	Amount               string `json:"amount"`
	GatewayTransactionID string `json:"gateway_transaction_id,omitempty"`
	PaymentURL           string `json:"payment_url,omitempty"`
}
