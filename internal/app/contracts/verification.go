package contracts

import (
	"context"

	"paybridge-service/internal/pkg/dto/responses"
)

// VerificationUsecase is the on-demand reconciliation path used when no
// webhook arrived.
type VerificationUsecase interface {
	VerifyTransaction(ctx context.Context, txnid string) (*responses.TransactionStatus, error)
}
