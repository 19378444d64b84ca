package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	t.Run("canonicalizes to two fraction digits", func(t *testing.T) {
		cases := map[string]string{
			"999":      "999.00",
			"1500.5":   "1500.50",
			"100.00":   "100.00",
			" 42.1 ":   "42.10",
			"0.01":     "0.01",
			"99.999":   "100.00",
			"1234.567": "1234.57",
		}
		for input, want := range cases {
			got, err := NormalizeAmount(input)
			require.NoError(t, err, "input %q", input)
			assert.Equal(t, want, got, "input %q", input)
		}
	})

	t.Run("rejects non-numeric and non-positive amounts", func(t *testing.T) {
		for _, input := range []string{"", "abc", "10,50", "0", "0.00", "-5"} {
			_, err := NormalizeAmount(input)
			assert.Error(t, err, "input %q", input)
		}
	})
}

func TestGenerateTxnID(t *testing.T) {
	first := GenerateTxnID()
	second := GenerateTxnID()

	assert.True(t, strings.HasPrefix(first, "TXN_"))
	assert.NotEqual(t, first, second)

	parts := strings.Split(first, "_")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 8, "random suffix is 8 hex chars")
}

func TestGenerateRefundToken(t *testing.T) {
	first := GenerateRefundToken("403993715521")
	second := GenerateRefundToken("403993715521")

	assert.True(t, strings.HasPrefix(first, "403993715521_"))
	assert.NotEqual(t, first, second, "each attempt gets a fresh token")
}
