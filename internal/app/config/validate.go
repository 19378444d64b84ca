package config

import (
	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/exceptions"
)

// Validate performs the startup-time configuration check. Missing merchant
// credentials or redirect URLs are hard failures, never runtime fallbacks.
func (c *InternalConfig) Validate() error {
	if c.PayU.MerchantKey == "" {
		return exceptions.ErrMissingMerchantKey(nil)
	}
	if c.PayU.MerchantSalt == "" {
		return exceptions.ErrMissingMerchantSalt(nil)
	}
	if c.PayU.RedirectBaseURL == "" || c.PayU.SuccessPath == "" || c.PayU.FailurePath == "" {
		return exceptions.ErrMissingRedirectURLs(nil)
	}
	switch c.PayU.Environment {
	case constvars.PayUEnvironmentTest, constvars.PayUEnvironmentProduction:
	default:
		return exceptions.ErrInvalidGatewayEnvironment(nil)
	}
	return nil
}
