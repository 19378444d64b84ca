package constvars

const (
	PaymentInitiatedSuccessfully = "Payment initiated successfully"
	PaymentVerifiedSuccessfully  = "Payment verified successfully"
	PaymentRefundedSuccessfully  = "Refund submitted successfully"
	PaymentCancelledSuccessfully = "Payment cancelled successfully"
	PaymentCapturedSuccessfully  = "Payment captured successfully"
	PaymentAmountUpdated         = "Payment amount updated"
	PaymentSessionFetched        = "Payment session retrieved"
	WebhookProcessedSuccessfully = "Notification processed"
	WebhookAcknowledged          = "Notification acknowledged"
)
