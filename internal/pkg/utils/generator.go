package utils

import (
	"fmt"
	"strings"
	"time"

	"paybridge-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

// GenerateTxnID returns a merchant transaction id in the form
// TXN_<epoch-ms>_<8 hex chars>.
func GenerateTxnID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:constvars.TxnIDRandomHexLen]
	return fmt.Sprintf("%s_%d_%s", constvars.TxnIDPrefix, time.Now().UnixMilli(), suffix)
}

// GenerateRequestID returns a uuid for request correlation when the caller
// did not supply one.
func GenerateRequestID() string {
	return uuid.NewString()
}

// GenerateRefundToken derives a token from the gateway transaction id and a
// nanosecond timestamp. Each refund attempt gets a fresh token so the
// gateway never mistakes a retry for a duplicate of a stale submission.
func GenerateRefundToken(gatewayTransactionID string) string {
	return fmt.Sprintf("%s_%d", gatewayTransactionID, time.Now().UnixNano())
}
