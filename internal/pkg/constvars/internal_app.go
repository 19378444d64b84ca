package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	ResourcePayments = "payments"
	ResourceWebhooks = "webhooks"
)

const (
	MongoCollectionPaymentSessions = "payment_sessions"
)

const (
	RedisWebhookDedupKeyFormat = "payu:webhook:%s:%s"
)

const (
	MinioRejectedWebhookObjectFormat = "rejected/%s_%d.json"
)

const (
	TxnIDPrefix          = "TXN"
	TxnIDRandomHexLen    = 8
	AmountFractionDigits = 2
)
