// Package service implements the loan desk operations over the repositories.
package service

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-desk/internal/repository"
	customError "github.com/segyhp/loan-desk/pkg/errors"
)

// Clock returns the current instant
type Clock func() time.Time

// Notifier is told that contracts or payments changed
type Notifier interface {
	Trigger()
}

type noopNotifier struct{}

func (noopNotifier) Trigger() {}

// NewValidator returns a validator that compares decimal.Decimal fields
// with the numeric tags (gt, gte, ...)
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// storageErr classifies a repository failure; notFound builds the
// business error for a missing record
func storageErr(err error, notFound func() *customError.BusinessError) error {
	if errors.Is(err, repository.ErrNotFound) && notFound != nil {
		return notFound()
	}
	return customError.WrapStorageError(err)
}

// validationErr maps validator failures to business errors. Attachment
// failures are reported apart from missing base fields.
func validationErr(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			ns := fe.StructNamespace()
			if strings.Contains(ns, ".Documentos[") || strings.Contains(ns, ".Anexos[") {
				return customError.WrapInvalidDocument(err)
			}
		}
	}
	return customError.WrapMissingBaseFields(err)
}
