package sessions

import (
	"context"
	"strings"
	"testing"

	"paybridge-service/internal/app/config"
	"paybridge-service/internal/app/contracts"
	"paybridge-service/internal/app/models"
	"paybridge-service/internal/app/services/shared/payment_gateway"
	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/dto/requests"
	"paybridge-service/internal/pkg/dto/responses"
	"paybridge-service/internal/pkg/exceptions"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGateway struct {
	statusCalls int
	refundCalls int
	status      *responses.GatewayStatus
	statusErr   error
	refund      *responses.GatewayRefundResult
	refundErr   error
}

func (f *fakeGateway) CheckStatus(ctx context.Context, txnid string) (*responses.GatewayStatus, error) {
	f.statusCalls++
	return f.status, f.statusErr
}

func (f *fakeGateway) Refund(ctx context.Context, request *requests.GatewayRefund) (*responses.GatewayRefundResult, error) {
	f.refundCalls++
	return f.refund, f.refundErr
}

type fakeRepository struct {
	sessions map[string]*models.PaymentSession
	updates  int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{sessions: map[string]*models.PaymentSession{}}
}

func (f *fakeRepository) FindByTxnID(ctx context.Context, txnid string) (*models.PaymentSession, error) {
	return f.sessions[txnid], nil
}

func (f *fakeRepository) FindByCorrelationID(ctx context.Context, correlationID string) (*models.PaymentSession, error) {
	for _, s := range f.sessions {
		if s.UDF1 == correlationID || s.TxnID == correlationID {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) CreateSession(ctx context.Context, session *models.PaymentSession) error {
	f.sessions[session.TxnID] = session
	return nil
}

func (f *fakeRepository) UpdateSession(ctx context.Context, session *models.PaymentSession) error {
	f.updates++
	f.sessions[session.TxnID] = session
	return nil
}

type fakePublisher struct {
	events []*contracts.PaymentEvent
}

func (f *fakePublisher) Publish(ctx context.Context, event *contracts.PaymentEvent) error {
	f.events = append(f.events, event)
	return nil
}

func testConfig(autoCapture bool) *config.InternalConfig {
	return &config.InternalConfig{
		PayU: config.PayU{
			MerchantKey:     "gtKFFx",
			MerchantSalt:    "eCwWELxi",
			Environment:     constvars.PayUEnvironmentTest,
			AutoCapture:     autoCapture,
			RedirectBaseURL: "https://shop.example.com",
			SuccessPath:     "/payu/success",
			FailurePath:     "/payu/failure",
			CountryCode:     "in",
		},
	}
}

func newTestUsecase(gateway *fakeGateway, repo *fakeRepository, publisher *fakePublisher, autoCapture bool) *sessionUsecase {
	cfg := testConfig(autoCapture)
	return &sessionUsecase{
		Gateway:           gateway,
		SessionRepository: repo,
		EventPublisher:    publisher,
		HashEngine:        payment_gateway.NewHashEngine(cfg.PayU.MerchantKey, cfg.PayU.MerchantSalt),
		InternalConfig:    cfg,
		Log:               zap.NewNop(),
		validate:          validator.New(),
	}
}

func TestInitiate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending signed session", func(t *testing.T) {
		repo := newFakeRepository()
		uc := newTestUsecase(&fakeGateway{}, repo, &fakePublisher{}, false)

		session, err := uc.Initiate(ctx, &requests.InitiatePayment{
			Amount:      "999",
			ProductInfo: "Premium Plan",
			Email:       "ravi@example.com",
			Firstname:   "Ravi",
			Phone:       "9876543210",
			UDF1:        "order-42",
		})
		require.NoError(t, err)

		assert.Equal(t, models.PaymentStatusPending, session.Status)
		assert.Equal(t, "999.00", session.Amount, "whole amounts gain two fraction digits")
		assert.True(t, strings.HasPrefix(session.TxnID, "TXN_"))
		assert.Len(t, session.Hash, 128)
		assert.Equal(t, "https://shop.example.com/in/payu/success", session.SuccessURL)
		assert.Equal(t, "https://shop.example.com/in/payu/failure", session.FailureURL)
		assert.Equal(t, "https://test.payu.in/_payment", session.PaymentURL)
		assert.NotNil(t, repo.sessions[session.TxnID], "session must be persisted")
	})

	t.Run("normalizes fractional amounts to two digits", func(t *testing.T) {
		uc := newTestUsecase(&fakeGateway{}, newFakeRepository(), &fakePublisher{}, false)

		session, err := uc.Initiate(ctx, &requests.InitiatePayment{
			Amount:      "1500.5",
			ProductInfo: "p",
			Email:       "e@x.com",
			Firstname:   "F",
			Phone:       "1",
		})
		require.NoError(t, err)
		assert.Equal(t, "1500.50", session.Amount)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		uc := newTestUsecase(&fakeGateway{}, newFakeRepository(), &fakePublisher{}, false)

		for _, amount := range []string{"0", "-5", "abc"} {
			_, err := uc.Initiate(ctx, &requests.InitiatePayment{
				Amount:      amount,
				ProductInfo: "p",
				Email:       "e@x.com",
				Firstname:   "F",
				Phone:       "1",
			})
			assert.Error(t, err, "amount %q must be rejected", amount)
		}
	})

	t.Run("resolves customer fields through customer then address", func(t *testing.T) {
		uc := newTestUsecase(&fakeGateway{}, newFakeRepository(), &fakePublisher{}, false)

		session, err := uc.Initiate(ctx, &requests.InitiatePayment{
			Amount:      "10",
			ProductInfo: "p",
			Customer:    &requests.CustomerContext{Email: "cust@x.com", Firstname: "Cust"},
			Address:     &requests.AddressContext{Phone: "555"},
		})
		require.NoError(t, err)
		assert.Equal(t, "cust@x.com", session.Email)
		assert.Equal(t, "Cust", session.Firstname)
		assert.Equal(t, "555", session.Phone, "phone falls through to the address")
	})

	t.Run("fails when a customer field cannot be resolved anywhere", func(t *testing.T) {
		uc := newTestUsecase(&fakeGateway{}, newFakeRepository(), &fakePublisher{}, false)

		_, err := uc.Initiate(ctx, &requests.InitiatePayment{
			Amount:      "10",
			ProductInfo: "p",
			Firstname:   "F",
			Phone:       "1",
		})
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	})
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()

	pendingSession := func() *models.PaymentSession {
		return &models.PaymentSession{TxnID: "TXN_1_abc", Amount: "100.00", Status: models.PaymentStatusPending}
	}

	t.Run("authorized session is an idempotent no-op without a gateway call", func(t *testing.T) {
		gateway := &fakeGateway{}
		uc := newTestUsecase(gateway, newFakeRepository(), &fakePublisher{}, false)

		session := &models.PaymentSession{TxnID: "TXN_1_abc", Status: models.PaymentStatusAuthorized, GatewayTransactionID: "403993715521"}
		got, err := uc.Authorize(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusAuthorized, got.Status)
		assert.Equal(t, 0, gateway.statusCalls, "no network call on re-authorization")
	})

	t.Run("successful verification authorizes and records the gateway transaction", func(t *testing.T) {
		gateway := &fakeGateway{status: &responses.GatewayStatus{
			Success:            true,
			Status:             "success",
			MihpayID:           "403993715521",
			TransactionDetails: map[string]interface{}{"amt": "100.00"},
		}}
		publisher := &fakePublisher{}
		uc := newTestUsecase(gateway, newFakeRepository(), publisher, false)

		got, err := uc.Authorize(ctx, pendingSession())
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusAuthorized, got.Status)
		assert.Equal(t, "403993715521", got.GatewayTransactionID)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, "authorized", publisher.events[0].Status)
	})

	t.Run("auto capture marks the session captured", func(t *testing.T) {
		gateway := &fakeGateway{status: &responses.GatewayStatus{Success: true, Status: "success", MihpayID: "403993715521"}}
		uc := newTestUsecase(gateway, newFakeRepository(), &fakePublisher{}, true)

		got, err := uc.Authorize(ctx, pendingSession())
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCaptured, got.Status)
	})

	t.Run("gateway failure never leaves the session pending", func(t *testing.T) {
		gateway := &fakeGateway{statusErr: exceptions.ErrGatewayTimeout(context.DeadlineExceeded)}
		uc := newTestUsecase(gateway, newFakeRepository(), &fakePublisher{}, false)

		got, err := uc.Authorize(ctx, pendingSession())
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusFailed, got.Status)
		assert.NotEmpty(t, got.FailureReason)
	})

	t.Run("transaction missing at gateway fails the session", func(t *testing.T) {
		gateway := &fakeGateway{status: &responses.GatewayStatus{NotFound: true}}
		uc := newTestUsecase(gateway, newFakeRepository(), &fakePublisher{}, false)

		got, err := uc.Authorize(ctx, pendingSession())
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusFailed, got.Status)
	})

	t.Run("terminal sessions are never resurrected by a late success", func(t *testing.T) {
		terminal := []models.PaymentStatus{
			models.PaymentStatusCancelled,
			models.PaymentStatusFailed,
			models.PaymentStatusRefunded,
		}
		for _, status := range terminal {
			gateway := &fakeGateway{status: &responses.GatewayStatus{Success: true, Status: "success", MihpayID: "403993715521"}}
			publisher := &fakePublisher{}
			uc := newTestUsecase(gateway, newFakeRepository(), publisher, false)

			session := &models.PaymentSession{TxnID: "TXN_1_abc", Amount: "100.00", Status: status}
			got, err := uc.Authorize(ctx, session)
			require.NoError(t, err, "status %s", status)
			assert.Equal(t, status, got.Status, "a %s session must stay %s", status, status)
			assert.Equal(t, 0, gateway.statusCalls, "no gateway call for a %s session", status)
			assert.Empty(t, publisher.events, "no event for a %s session", status)
		}
	})
}

func TestRefundOperation(t *testing.T) {
	ctx := context.Background()

	capturedSession := func() *models.PaymentSession {
		return &models.PaymentSession{
			TxnID:                "TXN_1_abc",
			Amount:               "100.00",
			Status:               models.PaymentStatusCaptured,
			GatewayTransactionID: "403993715521",
		}
	}

	t.Run("refuses without a gateway transaction id and makes no network call", func(t *testing.T) {
		gateway := &fakeGateway{}
		uc := newTestUsecase(gateway, newFakeRepository(), &fakePublisher{}, false)

		_, err := uc.Refund(ctx, &models.PaymentSession{TxnID: "TXN_1_abc", Status: models.PaymentStatusCaptured}, "50.00")
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusPreconditionFailed, customErr.StatusCode)
		assert.Equal(t, 0, gateway.refundCalls)
	})

	t.Run("successful submission records a refund with a fresh token", func(t *testing.T) {
		gateway := &fakeGateway{refund: &responses.GatewayRefundResult{Success: true, RequestID: "rq-77", Message: "Refund Request Queued"}}
		publisher := &fakePublisher{}
		uc := newTestUsecase(gateway, newFakeRepository(), publisher, false)

		got, err := uc.Refund(ctx, capturedSession(), "50.00")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusRefunded, got.Status)
		require.NotNil(t, got.Refund)
		assert.Equal(t, "50.00", got.Refund.Amount)
		assert.True(t, strings.HasPrefix(got.Refund.TokenID, "403993715521_"))
		assert.Equal(t, "rq-77", got.Refund.GatewayRequestID)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, "refunded", publisher.events[0].Status)
	})

	t.Run("classifies known gateway rejections", func(t *testing.T) {
		cases := []struct {
			message string
			want    string
		}{
			{"Refund is not allowed for this transaction", constvars.ErrClientRefundRetryLater},
			{"Token already used for this request", constvars.ErrClientRefundDuplicate},
			{"Invalid transaction or not found", constvars.ErrClientRefundTransactionNotFound},
			{"Refund amount should not exceed the transaction amount", constvars.ErrClientRefundAmountExceeds},
			{"Something entirely new", "Something entirely new"},
		}
		for _, tc := range cases {
			gateway := &fakeGateway{refund: &responses.GatewayRefundResult{Success: false, Message: tc.message}}
			uc := newTestUsecase(gateway, newFakeRepository(), &fakePublisher{}, false)

			_, err := uc.Refund(ctx, capturedSession(), "50.00")
			require.Error(t, err)
			customErr, ok := err.(*exceptions.CustomError)
			require.True(t, ok)
			assert.Equal(t, tc.want, customErr.ClientMessage, "message %q", tc.message)
		}
	})
}

func TestCancelAndCapture(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel works from any non-terminal state", func(t *testing.T) {
		for _, status := range []models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusAuthorized, models.PaymentStatusCaptured} {
			uc := newTestUsecase(&fakeGateway{}, newFakeRepository(), &fakePublisher{}, false)
			got, err := uc.Cancel(ctx, &models.PaymentSession{TxnID: "t", Status: status})
			require.NoError(t, err, "cancel from %s", status)
			assert.Equal(t, models.PaymentStatusCancelled, got.Status)
		}
	})

	t.Run("cancel from a terminal state is rejected", func(t *testing.T) {
		uc := newTestUsecase(&fakeGateway{}, newFakeRepository(), &fakePublisher{}, false)
		_, err := uc.Cancel(ctx, &models.PaymentSession{TxnID: "t", Status: models.PaymentStatusFailed})
		assert.Error(t, err)
	})

	t.Run("capture requires an authorized session", func(t *testing.T) {
		uc := newTestUsecase(&fakeGateway{}, newFakeRepository(), &fakePublisher{}, false)

		got, err := uc.Capture(ctx, &models.PaymentSession{TxnID: "t", Status: models.PaymentStatusAuthorized})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCaptured, got.Status)

		_, err = uc.Capture(ctx, &models.PaymentSession{TxnID: "t", Status: models.PaymentStatusPending})
		assert.Error(t, err, "capture straight from pending is illegal")
	})
}

func TestUpdateAmount(t *testing.T) {
	ctx := context.Background()

	t.Run("renormalizes and re-signs", func(t *testing.T) {
		uc := newTestUsecase(&fakeGateway{}, newFakeRepository(), &fakePublisher{}, false)

		session, err := uc.Initiate(ctx, &requests.InitiatePayment{
			Amount:      "100",
			ProductInfo: "p",
			Email:       "e@x.com",
			Firstname:   "F",
			Phone:       "1",
		})
		require.NoError(t, err)
		oldHash := session.Hash

		got, err := uc.UpdateAmount(ctx, session, "250.5")
		require.NoError(t, err)
		assert.Equal(t, "250.50", got.Amount)
		assert.NotEqual(t, oldHash, got.Hash, "a changed amount must produce a new signature")
	})

	t.Run("rejected once the session left pending", func(t *testing.T) {
		uc := newTestUsecase(&fakeGateway{}, newFakeRepository(), &fakePublisher{}, false)
		_, err := uc.UpdateAmount(ctx, &models.PaymentSession{TxnID: "t", Status: models.PaymentStatusAuthorized}, "10")
		assert.Error(t, err)
	})
}
