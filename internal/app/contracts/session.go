package contracts

import (
	"context"

	"paybridge-service/internal/app/models"
	"paybridge-service/internal/pkg/dto/requests"
)

// SessionUsecase is the capability set any host can call. A single
// implementation serves all of it; no provider hierarchy exists behind it.
type SessionUsecase interface {
	Initiate(ctx context.Context, request *requests.InitiatePayment) (*models.PaymentSession, error)
	Authorize(ctx context.Context, session *models.PaymentSession) (*models.PaymentSession, error)
	Capture(ctx context.Context, session *models.PaymentSession) (*models.PaymentSession, error)
	Refund(ctx context.Context, session *models.PaymentSession, amount string) (*models.PaymentSession, error)
	Cancel(ctx context.Context, session *models.PaymentSession) (*models.PaymentSession, error)
	UpdateAmount(ctx context.Context, session *models.PaymentSession, newAmount string) (*models.PaymentSession, error)
}

type SessionRepository interface {
	FindByTxnID(ctx context.Context, txnid string) (*models.PaymentSession, error)
	FindByCorrelationID(ctx context.Context, correlationID string) (*models.PaymentSession, error)
	CreateSession(ctx context.Context, session *models.PaymentSession) error
	UpdateSession(ctx context.Context, session *models.PaymentSession) error
}
