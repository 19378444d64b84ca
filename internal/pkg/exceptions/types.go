package exceptions

import (
	"fmt"

	"paybridge-service/internal/pkg/constvars"
)

// Configuration errors are fatal at startup or first use, never retried.
var (
	ErrMissingMerchantKey = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingMerchantKey)
	}
	ErrMissingMerchantSalt = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingMerchantSalt)
	}
	ErrMissingRedirectURLs = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingRedirectURLs)
	}
	ErrInvalidGatewayEnvironment = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevInvalidEnvironment)
	}
)

// Validation errors are surfaced to the caller, not retried.
var (
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrAmountNotNumeric = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidAmount, constvars.ErrDevAmountNotNumeric)
	}
	ErrCustomerFieldUnresolved = func(field string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientMissingCustomerFields, fmt.Sprintf("%s: %s", constvars.ErrDevCustomerFieldUnresolved, field))
	}
)

// Gateway errors. A timeout is retryable by the caller with backoff, a
// rejection is not.
var (
	ErrGatewayTimeout = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientGatewayTimedOut, constvars.ErrDevGatewayTimeout)
	}
	ErrGatewayUnreachable = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientGatewayUnreachable, constvars.ErrDevGatewayRequestFailed)
	}
	ErrGatewayBadResponse = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientGatewayUnreachable, constvars.ErrDevGatewayBadResponse)
	}
	ErrGatewayRejection = func(clientMessage string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadGateway, clientMessage, constvars.ErrDevGatewayRejected)
	}
)

// Session errors.
var (
	ErrRefundWithoutGatewayTxn = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusPreconditionFailed, constvars.ErrClientRefundNotPossible, constvars.ErrDevRefundWithoutGatewayTxn)
	}
	ErrIllegalStatusTransition = func(from, to string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientCannotProcessRequest, fmt.Sprintf("%s: %s -> %s", constvars.ErrDevIllegalStatusTransition, from, to))
	}
	ErrSessionNotFound = func(txnid string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientTransactionNotFound, fmt.Sprintf("%s: %s", constvars.ErrDevSessionNotFound, txnid))
	}
)

// Parsing and infrastructure errors.
var (
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotParseForm = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseForm)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingRequestID)
	}

	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToFindDocument)
	}
	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToInsertDocument)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToUpdateDocument)
	}

	ErrRedisOperation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisOperationFailed)
	}

	ErrQueuePublish = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevQueuePublishFailed)
	}

	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioFailedToCreateObject, bucketName))
	}
)
