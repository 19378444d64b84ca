package verification

import (
	"context"
	"testing"

	"paybridge-service/internal/app/config"
	"paybridge-service/internal/pkg/dto/requests"
	"paybridge-service/internal/pkg/dto/responses"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGateway struct {
	status    *responses.GatewayStatus
	statusErr error
	calls     int
}

func (f *fakeGateway) CheckStatus(ctx context.Context, txnid string) (*responses.GatewayStatus, error) {
	f.calls++
	return f.status, f.statusErr
}

func (f *fakeGateway) Refund(ctx context.Context, request *requests.GatewayRefund) (*responses.GatewayRefundResult, error) {
	return nil, nil
}

func newTestUsecase(gateway *fakeGateway, key, salt string) *verificationUsecase {
	return &verificationUsecase{
		Gateway: gateway,
		InternalConfig: &config.InternalConfig{
			PayU: config.PayU{MerchantKey: key, MerchantSalt: salt},
		},
		Log: zap.NewNop(),
	}
}

func TestVerifyTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("missing credentials yield a structured failure without a gateway call", func(t *testing.T) {
		gateway := &fakeGateway{}
		uc := newTestUsecase(gateway, "", "")

		result, err := uc.VerifyTransaction(ctx, "TXN_1_abc")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Error)
		assert.Equal(t, 0, gateway.calls)
	})

	t.Run("successful transaction maps through", func(t *testing.T) {
		gateway := &fakeGateway{status: &responses.GatewayStatus{
			Success:            true,
			Status:             "success",
			TransactionDetails: map[string]interface{}{"mihpayid": "403993715521"},
		}}
		uc := newTestUsecase(gateway, "gtKFFx", "eCwWELxi")

		result, err := uc.VerifyTransaction(ctx, "TXN_1_abc")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "success", result.Status)
		assert.Equal(t, "403993715521", result.Transaction["mihpayid"])
		assert.Empty(t, result.Error)
	})

	t.Run("unknown transaction reports not found", func(t *testing.T) {
		gateway := &fakeGateway{status: &responses.GatewayStatus{NotFound: true}}
		uc := newTestUsecase(gateway, "gtKFFx", "eCwWELxi")

		result, err := uc.VerifyTransaction(ctx, "TXN_missing")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Error)
	})

	t.Run("failed transaction carries the gateway message", func(t *testing.T) {
		gateway := &fakeGateway{status: &responses.GatewayStatus{
			Success: false,
			Status:  "failure",
			Message: "Transaction failed at bank",
		}}
		uc := newTestUsecase(gateway, "gtKFFx", "eCwWELxi")

		result, err := uc.VerifyTransaction(ctx, "TXN_1_abc")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Transaction failed at bank", result.Error)
	})
}
