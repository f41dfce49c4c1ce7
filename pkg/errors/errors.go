package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrMissingBaseFields  = errors.New("required fields missing")
	ErrMissingDuration    = errors.New("contract duration in days is required")
	ErrMissingCount       = errors.New("installment count is required")
	ErrInvalidPolicy      = errors.New("unknown interest policy")
	ErrInvalidDocument    = errors.New("invalid document metadata")
	ErrInvalidInstallment = errors.New("installment index out of range")
	ErrInvalidCourier     = errors.New("assignee is not a courier")
	ErrInvalidRecipient   = errors.New("invalid renewal recipient")
	ErrContractNotFound   = errors.New("contract not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrDeliveryNotFound   = errors.New("delivery not found")
	ErrNotConfirmed       = errors.New("payment not confirmed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeMissingBaseFields  = "MISSING_BASE_FIELDS"
	ErrCodeMissingDuration    = "MISSING_DURATION"
	ErrCodeMissingCount       = "MISSING_COUNT"
	ErrCodeInvalidPolicy      = "INVALID_POLICY"
	ErrCodeInvalidDocument    = "INVALID_DOCUMENT"
	ErrCodeInvalidInstallment = "INVALID_INSTALLMENT"
	ErrCodeInvalidCourier     = "INVALID_COURIER"
	ErrCodeInvalidRecipient   = "INVALID_RECIPIENT"
	ErrCodeNotConfirmed       = "NOT_CONFIRMED"
	ErrCodeContractNotFound   = "CONTRACT_NOT_FOUND"
	ErrCodeClientNotFound     = "CLIENT_NOT_FOUND"
	ErrCodeDeliveryNotFound   = "DELIVERY_NOT_FOUND"
	ErrCodeStorageError       = "STORAGE_ERROR"
)

// Wrap common errors with business context
func WrapMissingBaseFields(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeMissingBaseFields,
		"Client name, loan amount and rate are required",
		errors.Join(ErrMissingBaseFields, err),
	)
}

func WrapMissingDuration() *BusinessError {
	return NewBusinessError(
		ErrCodeMissingDuration,
		"Inform the number of days of the contract",
		ErrMissingDuration,
	)
}

func WrapMissingCount() *BusinessError {
	return NewBusinessError(
		ErrCodeMissingCount,
		"Inform the number of installments",
		ErrMissingCount,
	)
}

func WrapInvalidPolicy(tipoJuros string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPolicy,
		fmt.Sprintf("Interest policy %q is not supported", tipoJuros),
		ErrInvalidPolicy,
	)
}

func WrapInvalidDocument(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDocument,
		"Attachment metadata is incomplete",
		errors.Join(ErrInvalidDocument, err),
	)
}

func WrapInvalidInstallment(contractID string, index, total int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInstallment,
		fmt.Sprintf("Contract %s has %d installments, index %d does not exist", contractID, total, index),
		ErrInvalidInstallment,
	)
}

func WrapInvalidCourier(email string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidCourier,
		fmt.Sprintf("User %s is not a registered courier", email),
		ErrInvalidCourier,
	)
}

func WrapInvalidRecipient(email string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidRecipient,
		fmt.Sprintf("User %s cannot receive renewal requests", email),
		ErrInvalidRecipient,
	)
}

func WrapNotConfirmed() *BusinessError {
	return NewBusinessError(
		ErrCodeNotConfirmed,
		"Payment must be confirmed before it is recorded",
		ErrNotConfirmed,
	)
}

func WrapContractNotFound(contractID string) *BusinessError {
	return NewBusinessError(
		ErrCodeContractNotFound,
		fmt.Sprintf("Contract with ID %s not found", contractID),
		ErrContractNotFound,
	)
}

func WrapClientNotFound(cpf string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientNotFound,
		fmt.Sprintf("Client with CPF %s not found", cpf),
		ErrClientNotFound,
	)
}

func WrapDeliveryNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeDeliveryNotFound,
		fmt.Sprintf("Delivery with ID %s not found", id),
		ErrDeliveryNotFound,
	)
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorageError,
		"storage operation failed",
		err,
	)
}

// HTTPStatus maps an error returned by the service layer to a response code
func HTTPStatus(err error) int {
	var be *BusinessError
	if !errors.As(err, &be) {
		return http.StatusInternalServerError
	}

	switch be.Code {
	case ErrCodeMissingBaseFields, ErrCodeMissingDuration, ErrCodeMissingCount,
		ErrCodeInvalidPolicy, ErrCodeInvalidDocument:
		return http.StatusBadRequest
	case ErrCodeInvalidInstallment, ErrCodeInvalidCourier, ErrCodeInvalidRecipient,
		ErrCodeNotConfirmed:
		return http.StatusUnprocessableEntity
	case ErrCodeContractNotFound, ErrCodeClientNotFound, ErrCodeDeliveryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Code extracts the business code, or "" for unclassified errors
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
