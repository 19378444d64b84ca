package constvars

const (
	PayUEnvironmentTest       = "test"
	PayUEnvironmentProduction = "production"
)

// Merchant postservice commands. The hash for a command call is
// key|command|var1|salt.
const (
	PayUCommandVerifyPayment = "verify_payment"
	PayUCommandCancelRefund  = "cancel_refund_transaction"
)

const (
	PayUTestPostserviceURL       = "https://test.payu.in/merchant/postservice?form=2"
	PayUProductionPostserviceURL = "https://info.payu.in/merchant/postservice?form=2"
	PayUTestCheckoutURL          = "https://test.payu.in/_payment"
	PayUProductionCheckoutURL    = "https://secure.payu.in/_payment"
)

// PayUTransactionStatus is the per-transaction status string PayU reports
// from verify_payment and in webhook notifications.
type PayUTransactionStatus string

const (
	PayUTransactionStatusSuccess PayUTransactionStatus = "success"
	PayUTransactionStatusFailure PayUTransactionStatus = "failure"
	PayUTransactionStatusPending PayUTransactionStatus = "pending"
)

const (
	PayUServiceProvider = "payu_paisa"
)
