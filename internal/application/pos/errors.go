package pos

import (
	"net/http"

	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
)

// Rejections raised by a session. Validation failures map to 422 and leave session state untouched.
var (
	ErrEmptyCart              = apperror.NewUnprocessableError("cart is empty")
	ErrDeliveryFieldsRequired = apperror.NewUnprocessableError("delivery requires customer name, phone and address")
	ErrInvalidShippingCost    = apperror.NewUnprocessableError("shipping cost cannot be negative")
	ErrInsufficientPayment    = apperror.NewUnprocessableError("payments do not cover the total to charge")
	ErrNegativePaymentAmount  = apperror.NewUnprocessableError("payment amount cannot be negative")
	ErrInvalidPaymentMethod   = apperror.NewUnprocessableError("unknown payment method")
	ErrInvalidChannel         = apperror.NewUnprocessableError("unknown channel")
	ErrInvalidDiscountMode    = apperror.NewUnprocessableError("unknown discount mode")
	ErrTableLabelRequired     = apperror.NewUnprocessableError("table label is required to open a tab")
	ErrTabNotFound            = apperror.NewNotFoundError("Open tab")
)

// rejection copies a sentinel and attaches field detail; errors.Is still matches the sentinel.
func rejection(base *apperror.AppError, fields ...apperror.FieldError) *apperror.AppError {
	return &apperror.AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: base.Message,
		Errors:  fields,
	}
}
