package verification

import (
	"context"
	"sync"

	"paybridge-service/internal/app/config"
	"paybridge-service/internal/app/contracts"
	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/dto/responses"
	"paybridge-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type verificationUsecase struct {
	Gateway        contracts.PaymentGatewayClient
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

var (
	verificationUsecaseInstance contracts.VerificationUsecase
	onceVerificationUsecase     sync.Once
)

func NewVerificationUsecase(
	gateway contracts.PaymentGatewayClient,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.VerificationUsecase {
	onceVerificationUsecase.Do(func() {
		verificationUsecaseInstance = &verificationUsecase{
			Gateway:        gateway,
			InternalConfig: internalConfig,
			Log:            logger,
		}
	})
	return verificationUsecaseInstance
}

func (uc *verificationUsecase) VerifyTransaction(ctx context.Context, txnid string) (*responses.TransactionStatus, error) {
	requestID := utils.GetRequestID(ctx)

	// Verification is best effort; with no credentials configured the
	// answer is a structured "cannot verify", not an error.
	if uc.InternalConfig.PayU.MerchantKey == "" || uc.InternalConfig.PayU.MerchantSalt == "" {
		return &responses.TransactionStatus{
			Success: false,
			Error:   constvars.ErrClientVerificationNotConfigured,
		}, nil
	}

	status, err := uc.Gateway.CheckStatus(ctx, txnid)
	if err != nil {
		return nil, err
	}

	if status.NotFound {
		return &responses.TransactionStatus{
			Success: false,
			Error:   constvars.ErrClientTransactionNotFound,
		}, nil
	}

	result := &responses.TransactionStatus{
		Success:     status.Success,
		Status:      status.Status,
		Transaction: status.TransactionDetails,
	}
	if !status.Success {
		result.Error = status.Message
		if result.Error == "" {
			result.Error = status.Status
		}
	}

	uc.Log.Info("verificationUsecase.VerifyTransaction resolved",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTxnIDKey, txnid),
		zap.Bool(constvars.LoggingSuccessKey, result.Success),
	)
	return result, nil
}
