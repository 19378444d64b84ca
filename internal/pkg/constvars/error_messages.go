package constvars

// Validation messages, mapped by validator tag
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"numeric":  "must be a number",
	"min":      "must be at least %s characters long",
	"max":      "maximum at %s characters long",
	"oneof":    "must be one of [%s]",
	"gt":       "must be greater than %s",
	"url":      "must be a valid URL",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
	"gt":    true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientGatewayUnreachable            = "payment gateway is not reachable, please retry"
	ErrClientGatewayTimedOut               = "payment gateway request timed out, please retry"
	ErrClientPaymentNotInitiated           = "payment could not be initiated"
	ErrClientMissingCustomerFields         = "email, first name and phone are required to start a payment"
	ErrClientInvalidAmount                 = "amount must be a positive number"
	ErrClientRefundNotPossible             = "this payment cannot be refunded"
	ErrClientRefundRetryLater              = "refund cannot be processed right now, please retry later"
	ErrClientRefundDuplicate               = "a refund for this payment is already in flight"
	ErrClientRefundTransactionNotFound     = "the gateway does not recognize this transaction"
	ErrClientRefundAmountExceeds           = "refund amount exceeds the original payment"
	ErrClientTransactionNotFound           = "transaction not found"
	ErrClientVerificationNotConfigured     = "verification is not configured for this merchant"
)

// Error messages for developers
const (
	ErrDevCannotParseJSON        = "cannot parse JSON"
	ErrDevCannotParseForm        = "cannot parse form payload"
	ErrDevValidationFailed       = "validation failed"
	ErrDevMissingRequiredFields  = "missing required fields"
	ErrDevCannotMarshalJSON      = "cannot marshal JSON"
	ErrDevServerDeadlineExceeded = "server deadline exceeded"
	ErrDevMissingRequestID       = "request id missing from context"

	// Configuration
	ErrDevMissingMerchantKey  = "merchant key is not configured"
	ErrDevMissingMerchantSalt = "merchant salt is not configured"
	ErrDevMissingRedirectURLs = "redirect base url or paths are not configured"
	ErrDevInvalidEnvironment  = "gateway environment must be test or production"

	// Gateway
	ErrDevGatewayRequestFailed = "gateway request failed"
	ErrDevGatewayTimeout       = "gateway request timed out"
	ErrDevGatewayBadResponse   = "gateway returned an unparseable response"
	ErrDevGatewayRejected      = "gateway rejected the request"

	// Sessions
	ErrDevAmountNotNumeric        = "amount is not coercible to a decimal"
	ErrDevCustomerFieldUnresolved = "customer field could not be resolved from payload, customer context or address"
	ErrDevRefundWithoutGatewayTxn = "refund requested for a session without a gateway transaction id"
	ErrDevIllegalStatusTransition = "illegal payment status transition"
	ErrDevSessionNotFound         = "payment session not found"

	// Mongo
	ErrDevDBFailedToInsertDocument = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument = "failed to update document into database"
	ErrDevDBFailedToFindDocument   = "failed when do find document on database"

	// Redis
	ErrDevRedisOperationFailed = "redis operation failed"

	// RabbitMQ
	ErrDevQueuePublishFailed = "failed to publish message to queue"

	// Minio
	ErrDevMinioFailedToCreateObject = "failed to create object in bucket %s"
)
