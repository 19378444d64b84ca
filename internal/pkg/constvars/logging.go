package constvars

const (
	LoggingRequestIDKey    = "request_id"
	LoggingDataKey         = "data"
	LoggingRequestKey      = "request"
	LoggingResponseKey     = "response"
	LoggingEndpointKey     = "endpoint"
	LoggingMethodKey       = "method"
	LoggingRemoteAddrKey   = "remote_addr"
	LoggingUserAgentKey    = "user_agent"
	LoggingQueryKey        = "query"
	LoggingDurationKey     = "duration"
	LoggingStatusCodeKey   = "status_code"
	LoggingSuccessKey      = "success"
	LoggingOperationKey    = "operation"
	LoggingErrorTypeKey    = "error_type"
	LoggingErrorCodeKey    = "error_code"
	LoggingErrorMessageKey = "error_message"
	LoggingTxnIDKey        = "txnid"
	LoggingMihpayIDKey     = "mihpayid"
	LoggingSessionIDKey    = "session_id"
	LoggingPaymentStateKey = "payment_state"
	LoggingGatewayEnvKey   = "gateway_env"
	LoggingWebhookKindKey  = "webhook_kind"
)
