package config

import (
	"paybridge-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "paybridge"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                       utils.GetEnvString("APP_ENV", "development"),
			Port:                      utils.GetEnvString("APP_PORT", ":8080"),
			Version:                   utils.GetEnvString("APP_VERSION", "v1"),
			EndpointPrefix:            utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:               utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeoutInSeconds:  utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			RequestTimeoutInSeconds:   utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 10),
			PaymentEventsQueue:        utils.GetEnvString("APP_RABBITMQ_PAYMENT_EVENTS_QUEUE", "payment-events"),
			RejectedWebhookBucketName: utils.GetEnvString("APP_MINIO_REJECTED_WEBHOOK_BUCKET", "rejected-webhooks"),
		},
		PayU: PayU{
			MerchantKey:      utils.GetEnvString("PAYU_MERCHANT_KEY", ""),
			MerchantSalt:     utils.GetEnvString("PAYU_MERCHANT_SALT", ""),
			Environment:      utils.GetEnvString("PAYU_ENVIRONMENT", "test"),
			AutoCapture:      utils.GetEnvBool("PAYU_AUTO_CAPTURE", true),
			TimeoutInSeconds: utils.GetEnvInt("PAYU_TIMEOUT_IN_SECONDS", 30),
			RedirectBaseURL:  utils.GetEnvString("REDIRECT_BASE_URL", ""),
			SuccessPath:      utils.GetEnvString("REDIRECT_SUCCESS_PATH", ""),
			FailurePath:      utils.GetEnvString("REDIRECT_FAILURE_PATH", ""),
			CountryCode:      utils.GetEnvString("COUNTRY_CODE", "in"),
		},
	}
}
