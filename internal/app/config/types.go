package config

type (
	InternalConfig struct {
		App  App
		PayU PayU
	}

	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		Logger   Logger
		RabbitMQ RabbitMQ
		Minio    Minio
	}

	App struct {
		Env                       string
		Port                      string
		Version                   string
		EndpointPrefix            string
		MaxRequests               int
		ShutdownTimeoutInSeconds  int
		RequestTimeoutInSeconds   int
		PaymentEventsQueue        string
		RejectedWebhookBucketName string
	}

	// PayU holds the merchant credentials and redirect configuration. The
	// struct is validated once at startup and injected everywhere; no
	// component re-reads the environment per call.
	PayU struct {
		MerchantKey      string
		MerchantSalt     string
		Environment      string
		AutoCapture      bool
		TimeoutInSeconds int
		RedirectBaseURL  string
		SuccessPath      string
		FailurePath      string
		CountryCode      string
	}

	MongoDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}
	Minio struct {
		Port     string
		Host     string
		Username string
		Password string
		UseSSL   bool
	}
)
