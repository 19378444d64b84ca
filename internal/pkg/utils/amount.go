package utils

import (
	"strings"

	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/exceptions"

	"github.com/shopspring/decimal"
)

// NormalizeAmount coerces an amount into the gateway's canonical decimal
// string with exactly two fraction digits ("999" -> "999.00").
func NormalizeAmount(amount string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return "", exceptions.ErrAmountNotNumeric(err)
	}
	if d.Sign() <= 0 {
		return "", exceptions.ErrAmountNotNumeric(nil)
	}
	return d.StringFixed(constvars.AmountFractionDigits), nil
}

// ParseAmount parses a gateway-reported amount without going through
// floating point.
func ParseAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return decimal.Zero, exceptions.ErrAmountNotNumeric(err)
	}
	return d, nil
}
