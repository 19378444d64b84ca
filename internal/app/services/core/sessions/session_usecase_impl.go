package sessions

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"paybridge-service/internal/app/config"
	"paybridge-service/internal/app/contracts"
	"paybridge-service/internal/app/models"
	"paybridge-service/internal/app/services/shared/payment_gateway"
	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/dto/requests"
	"paybridge-service/internal/pkg/exceptions"
	"paybridge-service/internal/pkg/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type sessionUsecase struct {
	Gateway           contracts.PaymentGatewayClient
	SessionRepository contracts.SessionRepository
	EventPublisher    contracts.PaymentEventPublisher
	HashEngine        *payment_gateway.HashEngine
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
	validate          *validator.Validate
}

var (
	sessionUsecaseInstance contracts.SessionUsecase
	onceSessionUsecase     sync.Once
)

func NewSessionUsecase(
	gateway contracts.PaymentGatewayClient,
	sessionRepository contracts.SessionRepository,
	eventPublisher contracts.PaymentEventPublisher,
	hashEngine *payment_gateway.HashEngine,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.SessionUsecase {
	onceSessionUsecase.Do(func() {
		sessionUsecaseInstance = &sessionUsecase{
			Gateway:           gateway,
			SessionRepository: sessionRepository,
			EventPublisher:    eventPublisher,
			HashEngine:        hashEngine,
			InternalConfig:    internalConfig,
			Log:               logger,
			validate:          validator.New(),
		}
	})
	return sessionUsecaseInstance
}

func (uc *sessionUsecase) Initiate(ctx context.Context, request *requests.InitiatePayment) (*models.PaymentSession, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("sessionUsecase.Initiate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if err := uc.validate.Struct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	amount, err := utils.NormalizeAmount(request.Amount)
	if err != nil {
		return nil, err
	}

	// The gateway rejects requests missing these fields; failing fast
	// locally is cheaper than a round-trip failure.
	email, err := resolveCustomerField("email", request.Email, request.Customer, request.Address, func(c *requests.CustomerContext) string { return c.Email }, func(a *requests.AddressContext) string { return a.Email })
	if err != nil {
		return nil, err
	}
	firstname, err := resolveCustomerField("firstname", request.Firstname, request.Customer, request.Address, func(c *requests.CustomerContext) string { return c.Firstname }, func(a *requests.AddressContext) string { return a.Firstname })
	if err != nil {
		return nil, err
	}
	phone, err := resolveCustomerField("phone", request.Phone, request.Customer, request.Address, func(c *requests.CustomerContext) string { return c.Phone }, func(a *requests.AddressContext) string { return a.Phone })
	if err != nil {
		return nil, err
	}

	payu := uc.InternalConfig.PayU
	session := &models.PaymentSession{
		TxnID:       utils.GenerateTxnID(),
		Amount:      amount,
		ProductInfo: request.ProductInfo,
		Firstname:   firstname,
		Email:       email,
		Phone:       phone,
		Status:      models.PaymentStatusPending,
		CountryCode: payu.CountryCode,
		UDF1:        request.UDF1,
		UDF2:        request.UDF2,
		UDF3:        request.UDF3,
		UDF4:        request.UDF4,
		UDF5:        request.UDF5,
		PaymentURL:  payment_gateway.CheckoutEndpoint(payu.Environment),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	uc.rebuildRedirectURLs(session)
	uc.resign(session)

	if uc.SessionRepository != nil {
		if err := uc.SessionRepository.CreateSession(ctx, session); err != nil {
			return nil, err
		}
	}

	uc.Log.Info("sessionUsecase.Initiate created session",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTxnIDKey, session.TxnID),
		zap.String(constvars.LoggingPaymentStateKey, string(session.Status)),
	)
	return session, nil
}

func (uc *sessionUsecase) Authorize(ctx context.Context, session *models.PaymentSession) (*models.PaymentSession, error) {
	requestID := utils.GetRequestID(ctx)

	// Re-authorization of an already authorized or captured session is an
	// idempotent no-op. This is the defense against duplicate
	// webhook-triggered authorization races.
	if session.Status == models.PaymentStatusAuthorized || session.Status == models.PaymentStatusCaptured {
		uc.Log.Debug("sessionUsecase.Authorize short-circuit",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTxnIDKey, session.TxnID),
			zap.String(constvars.LoggingPaymentStateKey, string(session.Status)),
		)
		return session, nil
	}

	// A terminal session stays terminal. A late success notification for a
	// session already cancelled or failed must not resurrect it.
	if session.Status.IsTerminal() {
		uc.Log.Warn("sessionUsecase.Authorize ignored terminal session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTxnIDKey, session.TxnID),
			zap.String(constvars.LoggingPaymentStateKey, string(session.Status)),
		)
		return session, nil
	}

	status, err := uc.Gateway.CheckStatus(ctx, session.TxnID)
	switch {
	case err != nil:
		uc.failSession(ctx, session, err.Error())
	case status.NotFound:
		uc.failSession(ctx, session, "transaction not found at gateway")
	case !status.Success:
		reason := status.Status
		if reason == "" {
			reason = status.Message
		}
		uc.failSession(ctx, session, fmt.Sprintf("gateway reported %s", reason))
	default:
		session.Status = models.PaymentStatusAuthorized
		session.GatewayTransactionID = status.MihpayID
		session.GatewayResponse = status.TransactionDetails
		session.UpdatedAt = time.Now()
		if uc.InternalConfig.PayU.AutoCapture {
			// The gateway captures server-side; this is bookkeeping only.
			session.Status = models.PaymentStatusCaptured
		}
	}

	if uc.SessionRepository != nil {
		if err := uc.SessionRepository.UpdateSession(ctx, session); err != nil {
			return nil, err
		}
	}
	uc.publishEvent(ctx, session, session.FailureReason)

	uc.Log.Info("sessionUsecase.Authorize resolved",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTxnIDKey, session.TxnID),
		zap.String(constvars.LoggingMihpayIDKey, session.GatewayTransactionID),
		zap.String(constvars.LoggingPaymentStateKey, string(session.Status)),
	)
	return session, nil
}

func (uc *sessionUsecase) Capture(ctx context.Context, session *models.PaymentSession) (*models.PaymentSession, error) {
	if session.Status == models.PaymentStatusCaptured {
		return session, nil
	}
	if !session.Status.CanTransition(models.PaymentStatusCaptured) {
		return nil, exceptions.ErrIllegalStatusTransition(string(session.Status), string(models.PaymentStatusCaptured))
	}
	session.Status = models.PaymentStatusCaptured
	session.UpdatedAt = time.Now()
	if uc.SessionRepository != nil {
		if err := uc.SessionRepository.UpdateSession(ctx, session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func (uc *sessionUsecase) Refund(ctx context.Context, session *models.PaymentSession, amount string) (*models.PaymentSession, error) {
	requestID := utils.GetRequestID(ctx)

	// A session that never recorded a gateway transaction id was never
	// captured; there is nothing the gateway could refund.
	if session.GatewayTransactionID == "" {
		return nil, exceptions.ErrRefundWithoutGatewayTxn()
	}

	normalized, err := utils.NormalizeAmount(amount)
	if err != nil {
		return nil, err
	}

	// A fresh token per attempt keeps a retried refund distinguishable
	// from a stale in-flight submission on the gateway side.
	tokenID := utils.GenerateRefundToken(session.GatewayTransactionID)

	result, err := uc.Gateway.Refund(ctx, &requests.GatewayRefund{
		GatewayTransactionID: session.GatewayTransactionID,
		TokenID:              tokenID,
		Amount:               normalized,
	})
	if err != nil {
		return nil, err
	}

	if !result.Success {
		uc.Log.Warn("sessionUsecase.Refund rejected by gateway",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTxnIDKey, session.TxnID),
			zap.String(constvars.LoggingMihpayIDKey, session.GatewayTransactionID),
			zap.String("gateway_message", result.Message),
			zap.String("error_code", result.ErrorCode),
		)
		return nil, exceptions.ErrGatewayRejection(classifyRefundFailure(result.Message))
	}

	session.Status = models.PaymentStatusRefunded
	session.UpdatedAt = time.Now()
	session.Refund = &models.RefundRecord{
		TokenID:          tokenID,
		Amount:           normalized,
		GatewayRequestID: result.RequestID,
		RawResponse: map[string]interface{}{
			"request_id": result.RequestID,
			"mihpayid":   result.GatewayTransactionID,
			"msg":        result.Message,
		},
		SubmittedAt: time.Now(),
	}

	if uc.SessionRepository != nil {
		if err := uc.SessionRepository.UpdateSession(ctx, session); err != nil {
			return nil, err
		}
	}
	uc.publishEvent(ctx, session, "")

	uc.Log.Info("sessionUsecase.Refund submitted",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTxnIDKey, session.TxnID),
		zap.String("refund_token", tokenID),
	)
	return session, nil
}

func (uc *sessionUsecase) Cancel(ctx context.Context, session *models.PaymentSession) (*models.PaymentSession, error) {
	if session.Status.IsTerminal() {
		return nil, exceptions.ErrIllegalStatusTransition(string(session.Status), string(models.PaymentStatusCancelled))
	}
	session.Status = models.PaymentStatusCancelled
	session.UpdatedAt = time.Now()
	if uc.SessionRepository != nil {
		if err := uc.SessionRepository.UpdateSession(ctx, session); err != nil {
			return nil, err
		}
	}
	uc.publishEvent(ctx, session, "")
	return session, nil
}

func (uc *sessionUsecase) UpdateAmount(ctx context.Context, session *models.PaymentSession, newAmount string) (*models.PaymentSession, error) {
	if session.Status != models.PaymentStatusPending {
		return nil, exceptions.ErrIllegalStatusTransition(string(session.Status), string(models.PaymentStatusPending))
	}

	amount, err := utils.NormalizeAmount(newAmount)
	if err != nil {
		return nil, err
	}

	// A changed amount invalidates the signature; a stale hash must never
	// reach the gateway.
	session.Amount = amount
	session.UpdatedAt = time.Now()
	uc.rebuildRedirectURLs(session)
	uc.resign(session)

	if uc.SessionRepository != nil {
		if err := uc.SessionRepository.UpdateSession(ctx, session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func (uc *sessionUsecase) failSession(ctx context.Context, session *models.PaymentSession, reason string) {
	session.Status = models.PaymentStatusFailed
	session.FailureReason = reason
	session.UpdatedAt = time.Now()
}

func (uc *sessionUsecase) resign(session *models.PaymentSession) {
	session.Hash = uc.HashEngine.SignRequest(
		session.TxnID,
		session.Amount,
		session.ProductInfo,
		session.Firstname,
		session.Email,
		[5]string{session.UDF1, session.UDF2, session.UDF3, session.UDF4, session.UDF5},
	)
}

func (uc *sessionUsecase) rebuildRedirectURLs(session *models.PaymentSession) {
	payu := uc.InternalConfig.PayU
	base := strings.TrimSuffix(payu.RedirectBaseURL, "/")
	session.SuccessURL = fmt.Sprintf("%s/%s%s", base, session.CountryCode, payu.SuccessPath)
	session.FailureURL = fmt.Sprintf("%s/%s%s", base, session.CountryCode, payu.FailurePath)
}

func (uc *sessionUsecase) publishEvent(ctx context.Context, session *models.PaymentSession, reason string) {
	if uc.EventPublisher == nil {
		return
	}
	err := uc.EventPublisher.Publish(ctx, &contracts.PaymentEvent{
		TxnID:      session.TxnID,
		Status:     string(session.Status),
		MihpayID:   session.GatewayTransactionID,
		Amount:     session.Amount,
		Reason:     reason,
		OccurredAt: time.Now(),
	})
	if err != nil {
		uc.Log.Warn("sessionUsecase failed to publish payment event",
			zap.String(constvars.LoggingTxnIDKey, session.TxnID),
			zap.Error(err),
		)
	}
}

func resolveCustomerField(
	name, explicit string,
	customer *requests.CustomerContext,
	address *requests.AddressContext,
	fromCustomer func(*requests.CustomerContext) string,
	fromAddress func(*requests.AddressContext) string,
) (string, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, nil
	}
	if customer != nil {
		if v := strings.TrimSpace(fromCustomer(customer)); v != "" {
			return v, nil
		}
	}
	if address != nil {
		if v := strings.TrimSpace(fromAddress(address)); v != "" {
			return v, nil
		}
	}
	return "", exceptions.ErrCustomerFieldUnresolved(name)
}

// classifyRefundFailure maps known gateway rejection messages onto
// user-facing reasons. Unknown messages pass through verbatim; the
// classification never changes control flow.
func classifyRefundFailure(message string) string {
	normalized := strings.ToLower(message)
	switch {
	case strings.Contains(normalized, "not allowed") ||
		strings.Contains(normalized, "in progress") ||
		strings.Contains(normalized, "try after"):
		return constvars.ErrClientRefundRetryLater
	case strings.Contains(normalized, "token") &&
		(strings.Contains(normalized, "already") || strings.Contains(normalized, "used") || strings.Contains(normalized, "duplicate")):
		return constvars.ErrClientRefundDuplicate
	case strings.Contains(normalized, "not found") ||
		strings.Contains(normalized, "invalid transaction") ||
		strings.Contains(normalized, "does not exist"):
		return constvars.ErrClientRefundTransactionNotFound
	case strings.Contains(normalized, "exceed") ||
		strings.Contains(normalized, "greater than"):
		return constvars.ErrClientRefundAmountExceeds
	default:
		return message
	}
}
