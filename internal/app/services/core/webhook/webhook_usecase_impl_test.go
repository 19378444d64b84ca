package webhook

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"testing"
	"time"

	"paybridge-service/internal/app/contracts"
	"paybridge-service/internal/app/models"
	"paybridge-service/internal/app/services/shared/payment_gateway"
	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/dto/requests"
	"paybridge-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testKey  = "gtKFFx"
	testSalt = "eCwWELxi"
)

func responseHash(t *testing.T, status, email, firstname, productinfo, amount, txnid, udf1 string) string {
	t.Helper()
	sequence := fmt.Sprintf("%s|%s||||||||||%s|%s|%s|%s|%s|%s|%s",
		testSalt, status, udf1, email, firstname, productinfo, amount, txnid, testKey)
	sum := sha512.Sum512([]byte(sequence))
	return hex.EncodeToString(sum[:])
}

func formNotification(t *testing.T, status, txnid, udf1, mihpayid string) *contracts.WebhookNotification {
	t.Helper()
	values := url.Values{}
	values.Set("txnid", txnid)
	values.Set("status", status)
	values.Set("amount", "100.00")
	values.Set("email", "ravi@example.com")
	values.Set("firstname", "Ravi")
	values.Set("productinfo", "Premium Plan")
	values.Set("mihpayid", mihpayid)
	if udf1 != "" {
		values.Set("udf1", udf1)
	}
	values.Set("hash", responseHash(t, status, "ravi@example.com", "Ravi", "Premium Plan", "100.00", txnid, udf1))
	return &contracts.WebhookNotification{RawBody: values.Encode()}
}

type fakeSessionUsecase struct {
	authorizeCalls int
}

func (f *fakeSessionUsecase) Initiate(ctx context.Context, request *requests.InitiatePayment) (*models.PaymentSession, error) {
	return nil, nil
}

func (f *fakeSessionUsecase) Authorize(ctx context.Context, session *models.PaymentSession) (*models.PaymentSession, error) {
	f.authorizeCalls++
	session.Status = models.PaymentStatusAuthorized
	return session, nil
}

func (f *fakeSessionUsecase) Capture(ctx context.Context, session *models.PaymentSession) (*models.PaymentSession, error) {
	return session, nil
}

func (f *fakeSessionUsecase) Refund(ctx context.Context, session *models.PaymentSession, amount string) (*models.PaymentSession, error) {
	return session, nil
}

func (f *fakeSessionUsecase) Cancel(ctx context.Context, session *models.PaymentSession) (*models.PaymentSession, error) {
	return session, nil
}

func (f *fakeSessionUsecase) UpdateAmount(ctx context.Context, session *models.PaymentSession, newAmount string) (*models.PaymentSession, error) {
	return session, nil
}

type fakeRepository struct {
	sessions map[string]*models.PaymentSession
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

type fakeDedupStore struct {
	seen map[string]bool
}

func (f *fakeDedupStore) MarkDelivered(ctx context.Context, mihpayid, status string, retention time.Duration) (bool, error) {
	key := mihpayid + ":" + status
	if f.seen[key] {
		return false, nil
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	f.seen[key] = true
	return true, nil
}

type fakeArchive struct {
	archived [][]byte
}

func (f *fakeArchive) ArchiveRejected(ctx context.Context, correlationID string, rawPayload []byte) error {
	f.archived = append(f.archived, rawPayload)
	return nil
}

func newTestWebhookUsecase(repo *fakeRepository) (*webhookUsecase, *fakeSessionUsecase, *fakeArchive) {
	sessionUc := &fakeSessionUsecase{}
	archive := &fakeArchive{}
	uc := &webhookUsecase{
		SessionUsecase:    sessionUc,
		SessionRepository: repo,
		EventPublisher:    &fakePublisher{},
		DedupStore:        &fakeDedupStore{seen: map[string]bool{}},
		AuditArchive:      archive,
		HashEngine:        payment_gateway.NewHashEngine(testKey, testSalt),
		Log:               zap.NewNop(),
	}
	return uc, sessionUc, archive
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("classifies a signed success notification", func(t *testing.T) {
		uc, _, _ := newTestWebhookUsecase(&fakeRepository{})

		outcome, err := uc.Reconcile(ctx, formNotification(t, "success", "TXN_1_abc", "order-42", "403993715521"))
		require.NoError(t, err)
		assert.Equal(t, models.WebhookActionAuthorized, outcome.Action)
		assert.Equal(t, "order-42", outcome.CorrelationID, "udf1 wins as correlation id")
		assert.Equal(t, "TXN_1_abc", outcome.TxnID)
		assert.Equal(t, "403993715521", outcome.MihpayID)
		assert.Equal(t, "100.00", outcome.Amount.StringFixed(2))
	})

	t.Run("falls back to txnid as correlation id", func(t *testing.T) {
		uc, _, _ := newTestWebhookUsecase(&fakeRepository{})

		outcome, err := uc.Reconcile(ctx, formNotification(t, "success", "TXN_1_abc", "", "403993715521"))
		require.NoError(t, err)
		assert.Equal(t, "TXN_1_abc", outcome.CorrelationID)
	})

	t.Run("classification by status vocabulary", func(t *testing.T) {
		cases := []struct {
			status string
			want   models.WebhookAction
		}{
			{"failure", models.WebhookActionFailed},
			{"failed", models.WebhookActionFailed},
			{"refund", models.WebhookActionAcknowledged},
			{"refunded", models.WebhookActionAcknowledged},
			{"dispute", models.WebhookActionManualReview},
			{"chargeback", models.WebhookActionManualReview},
			{"in_mediation", models.WebhookActionUnsupported},
		}
		for _, tc := range cases {
			uc, _, _ := newTestWebhookUsecase(&fakeRepository{})
			outcome, err := uc.Reconcile(ctx, formNotification(t, tc.status, "TXN_1_abc", "", "m1"))
			require.NoError(t, err, "status %q", tc.status)
			assert.Equal(t, tc.want, outcome.Action, "status %q", tc.status)
		}
	})

	t.Run("classifies a payload missing required fields as unsupported and archives it", func(t *testing.T) {
		uc, _, archive := newTestWebhookUsecase(&fakeRepository{})

		outcome, err := uc.Reconcile(ctx, &contracts.WebhookNotification{RawBody: "txnid=TXN_1_abc&amount=100.00"})
		require.NoError(t, err, "a rejected payload must not surface as an error")
		assert.Equal(t, models.WebhookActionUnsupported, outcome.Action)
		assert.NotEmpty(t, outcome.Reason)
		assert.Len(t, archive.archived, 1)
	})

	t.Run("classifies a tampered hash as unsupported and archives it", func(t *testing.T) {
		uc, _, archive := newTestWebhookUsecase(&fakeRepository{})

		notification := formNotification(t, "success", "TXN_1_abc", "", "m1")
		values, _ := url.ParseQuery(notification.RawBody)
		values.Set("amount", "1.00")
		notification.RawBody = values.Encode()

		outcome, err := uc.Reconcile(ctx, notification)
		require.NoError(t, err, "a tampered payload must not surface as an error")
		assert.Equal(t, models.WebhookActionUnsupported, outcome.Action)
		assert.Equal(t, "hash verification failed", outcome.Reason)
		assert.Len(t, archive.archived, 1)
	})

	t.Run("malformed amount on a verified payload falls back to zero", func(t *testing.T) {
		uc, _, archive := newTestWebhookUsecase(&fakeRepository{})

		values := url.Values{}
		values.Set("txnid", "TXN_1_abc")
		values.Set("status", "success")
		values.Set("amount", "12.3.4")
		values.Set("email", "ravi@example.com")
		values.Set("firstname", "Ravi")
		values.Set("productinfo", "Premium Plan")
		values.Set("mihpayid", "403993715521")
		values.Set("hash", responseHash(t, "success", "ravi@example.com", "Ravi", "Premium Plan", "12.3.4", "TXN_1_abc", ""))

		outcome, err := uc.Reconcile(ctx, &contracts.WebhookNotification{RawBody: values.Encode()})
		require.NoError(t, err)
		assert.Equal(t, models.WebhookActionAuthorized, outcome.Action, "the digest covers the raw amount string, so verification still passes")
		assert.True(t, outcome.Amount.IsZero())
		assert.Empty(t, archive.archived)
	})

	t.Run("reads fields nested under a payload object", func(t *testing.T) {
		uc, _, _ := newTestWebhookUsecase(&fakeRepository{})

		outcome, err := uc.Reconcile(ctx, &contracts.WebhookNotification{
			Envelope: map[string]interface{}{
				"event": "payment.update",
				"payload": map[string]interface{}{
					"txnid":       "TXN_1_abc",
					"status":      "success",
					"amount":      "100.00",
					"email":       "ravi@example.com",
					"firstname":   "Ravi",
					"productinfo": "Premium Plan",
					"mihpayid":    "403993715521",
					"hash":        responseHash(t, "success", "ravi@example.com", "Ravi", "Premium Plan", "100.00", "TXN_1_abc", ""),
				},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, models.WebhookActionAuthorized, outcome.Action)
	})

	t.Run("reads top-level envelope fields when no payload object exists", func(t *testing.T) {
		uc, _, _ := newTestWebhookUsecase(&fakeRepository{})

		outcome, err := uc.Reconcile(ctx, &contracts.WebhookNotification{
			Envelope: map[string]interface{}{
				"txnid":       "TXN_1_abc",
				"status":      "success",
				"amount":      "100.00",
				"email":       "ravi@example.com",
				"firstname":   "Ravi",
				"productinfo": "Premium Plan",
				"hash":        responseHash(t, "success", "ravi@example.com", "Ravi", "Premium Plan", "100.00", "TXN_1_abc", ""),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, models.WebhookActionAuthorized, outcome.Action)
	})
}

func TestHandleNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("authorizes the matching session on success", func(t *testing.T) {
		repo := &fakeRepository{sessions: map[string]*models.PaymentSession{
			"TXN_1_abc": {TxnID: "TXN_1_abc", UDF1: "order-42", Status: models.PaymentStatusPending},
		}}
		uc, sessionUc, _ := newTestWebhookUsecase(repo)

		outcome, err := uc.HandleNotification(ctx, formNotification(t, "success", "TXN_1_abc", "order-42", "403993715521"))
		require.NoError(t, err)
		assert.Equal(t, models.WebhookActionAuthorized, outcome.Action)
		assert.Equal(t, 1, sessionUc.authorizeCalls)
		assert.False(t, outcome.Duplicate)
	})

	t.Run("second delivery of the same notification is a duplicate no-op", func(t *testing.T) {
		repo := &fakeRepository{sessions: map[string]*models.PaymentSession{
			"TXN_1_abc": {TxnID: "TXN_1_abc", Status: models.PaymentStatusPending},
		}}
		uc, sessionUc, _ := newTestWebhookUsecase(repo)

		notification := formNotification(t, "success", "TXN_1_abc", "", "403993715521")
		_, err := uc.HandleNotification(ctx, notification)
		require.NoError(t, err)

		outcome, err := uc.HandleNotification(ctx, notification)
		require.NoError(t, err)
		assert.True(t, outcome.Duplicate)
		assert.Equal(t, 1, sessionUc.authorizeCalls, "duplicate must not re-apply the transition")
	})

	t.Run("failure notification fails the session", func(t *testing.T) {
		repo := &fakeRepository{sessions: map[string]*models.PaymentSession{
			"TXN_1_abc": {TxnID: "TXN_1_abc", Status: models.PaymentStatusPending},
		}}
		uc, _, _ := newTestWebhookUsecase(repo)

		outcome, err := uc.HandleNotification(ctx, formNotification(t, "failure", "TXN_1_abc", "", "403993715521"))
		require.NoError(t, err)
		assert.Equal(t, models.WebhookActionFailed, outcome.Action)
		assert.Equal(t, models.PaymentStatusFailed, repo.sessions["TXN_1_abc"].Status)
	})

	t.Run("refund notification is acknowledged without touching the session", func(t *testing.T) {
		repo := &fakeRepository{sessions: map[string]*models.PaymentSession{
			"TXN_1_abc": {TxnID: "TXN_1_abc", Status: models.PaymentStatusRefunded},
		}}
		uc, _, _ := newTestWebhookUsecase(repo)

		outcome, err := uc.HandleNotification(ctx, formNotification(t, "refund", "TXN_1_abc", "", "403993715521"))
		require.NoError(t, err)
		assert.Equal(t, models.WebhookActionAcknowledged, outcome.Action)
		assert.Equal(t, models.PaymentStatusRefunded, repo.sessions["TXN_1_abc"].Status)
	})

	t.Run("unknown correlation id is an error", func(t *testing.T) {
		uc, _, _ := newTestWebhookUsecase(&fakeRepository{sessions: map[string]*models.PaymentSession{}})

		_, err := uc.HandleNotification(ctx, formNotification(t, "success", "TXN_unknown", "", "403993715521"))
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})

	t.Run("tampered hash yields an unsupported outcome and never reaches the session", func(t *testing.T) {
		repo := &fakeRepository{sessions: map[string]*models.PaymentSession{
			"TXN_1_abc": {TxnID: "TXN_1_abc", Status: models.PaymentStatusPending},
		}}
		uc, sessionUc, archive := newTestWebhookUsecase(repo)

		notification := formNotification(t, "success", "TXN_1_abc", "", "403993715521")
		values, _ := url.ParseQuery(notification.RawBody)
		digest := values.Get("hash")
		flipped := "a"
		if digest[len(digest)-1] == 'a' {
			flipped = "b"
		}
		values.Set("hash", digest[:len(digest)-1]+flipped)
		notification.RawBody = values.Encode()

		outcome, err := uc.HandleNotification(ctx, notification)
		require.NoError(t, err)
		assert.Equal(t, models.WebhookActionUnsupported, outcome.Action)
		assert.Equal(t, 0, sessionUc.authorizeCalls)
		assert.Equal(t, models.PaymentStatusPending, repo.sessions["TXN_1_abc"].Status)
		assert.Len(t, archive.archived, 1)
	})

	t.Run("unsupported status resolves without a session lookup", func(t *testing.T) {
		uc, sessionUc, _ := newTestWebhookUsecase(&fakeRepository{sessions: map[string]*models.PaymentSession{}})

		outcome, err := uc.HandleNotification(ctx, formNotification(t, "in_mediation", "TXN_unknown", "", "403993715521"))
		require.NoError(t, err, "a status the state machine cannot map is not an error")
		assert.Equal(t, models.WebhookActionUnsupported, outcome.Action)
		assert.Equal(t, "unsupported notification status", outcome.Reason)
		assert.Equal(t, 0, sessionUc.authorizeCalls)
	})
}
