package contracts

import (
	"context"

	"paybridge-service/internal/pkg/dto/requests"
	"paybridge-service/internal/pkg/dto/responses"
)

// PaymentGatewayClient performs signed calls against the merchant API.
// Implementations hold only immutable configuration and are safe for
// concurrent use.
type PaymentGatewayClient interface {
	CheckStatus(ctx context.Context, txnid string) (*responses.GatewayStatus, error)
	Refund(ctx context.Context, request *requests.GatewayRefund) (*responses.GatewayRefundResult, error)
}
