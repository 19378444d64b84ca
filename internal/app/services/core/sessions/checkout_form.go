package sessions

import (
	"paybridge-service/internal/app/models"
	"paybridge-service/internal/pkg/constvars"
)

// CheckoutForm returns the exact field set the browser must POST to the
// hosted payment page. Field names are the gateway's, not ours.
func CheckoutForm(merchantKey string, session *models.PaymentSession) map[string]string {
	form := map[string]string{
		"key":              merchantKey,
		"txnid":            session.TxnID,
		"amount":           session.Amount,
		"productinfo":      session.ProductInfo,
		"firstname":        session.Firstname,
		"email":            session.Email,
		"phone":            session.Phone,
		"surl":             session.SuccessURL,
		"furl":             session.FailureURL,
		"hash":             session.Hash,
		"service_provider": constvars.PayUServiceProvider,
	}
	for name, value := range map[string]string{
		"udf1": session.UDF1,
		"udf2": session.UDF2,
		"udf3": session.UDF3,
		"udf4": session.UDF4,
		"udf5": session.UDF5,
	} {
		if value != "" {
			form[name] = value
		}
	}
	return form
}
