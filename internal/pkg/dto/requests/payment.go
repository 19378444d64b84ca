package requests

// InitiatePayment carries everything the hosting platform supplies when a
// checkout is started. Email, Firstname and Phone resolve through the
// explicit payload value, then the customer context, then the address.
type InitiatePayment struct {
	Amount      string `json:"amount" validate:"required"`
	ProductInfo string `json:"productinfo" validate:"required"`

	Email     string `json:"email,omitempty"`
	Firstname string `json:"firstname,omitempty"`
	Phone     string `json:"phone,omitempty"`

	UDF1 string `json:"udf1,omitempty"`
	UDF2 string `json:"udf2,omitempty"`
	UDF3 string `json:"udf3,omitempty"`
	UDF4 string `json:"udf4,omitempty"`
	UDF5 string `json:"udf5,omitempty"`

	Customer *CustomerContext `json:"customer,omitempty"`
	Address  *AddressContext  `json:"address,omitempty"`
}

// CustomerContext is the platform-provided customer record.
type CustomerContext struct {
	Email     string `json:"email,omitempty"`
	Firstname string `json:"firstname,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// AddressContext is the billing address attached to the checkout, the last
// fallback for customer fields.
type AddressContext struct {
	Email     string `json:"email,omitempty"`
	Firstname string `json:"first_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type RefundPayment struct {
	TxnID  string `json:"txnid" validate:"required"`
	Amount string `json:"amount" validate:"required"`
}

type UpdatePaymentAmount struct {
	Amount string `json:"amount" validate:"required"`
}
