package graphql

import (
	"errors"

	"github.com/jhoicas/tienda-api/internal/domain"
)

// Códigos de error expuestos en extensions.code.
const (
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeForbidden             = "FORBIDDEN"
	CodeNotFound              = "NOT_FOUND"
	CodeDuplicateEmail        = "DUPLICATE_EMAIL"
	CodeInvalidCredential     = "INVALID_CREDENTIAL"
	CodePasswordMismatch      = "PASSWORD_MISMATCH"
	CodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
	CodePaymentDeclined       = "PAYMENT_DECLINED"
	CodePaymentGateway        = "PAYMENT_GATEWAY_ERROR"
	CodeEmptyCart             = "EMPTY_CART"
	CodeValidation            = "VALIDATION"
	CodeStore                 = "STORE_ERROR"
	CodeInternal              = "INTERNAL"
)

// Error error de API con código. Implementa gqlerrors.ExtendedError.
type Error struct {
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Extensions devuelve {"code": Code}.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

var codeTable = []struct {
	err  error
	code string
}{
	{domain.ErrUnauthenticated, CodeUnauthenticated},
	{domain.ErrForbidden, CodeForbidden},
	{domain.ErrUserNotFound, CodeNotFound},
	{domain.ErrNotFound, CodeNotFound},
	{domain.ErrEmailAlreadyExists, CodeDuplicateEmail},
	{domain.ErrInvalidCredential, CodeInvalidCredential},
	{domain.ErrPasswordMismatch, CodePasswordMismatch},
	{domain.ErrInvalidOrExpiredToken, CodeInvalidOrExpiredToken},
	{domain.ErrPaymentDeclined, CodePaymentDeclined},
	{domain.ErrPaymentGateway, CodePaymentGateway},
	{domain.ErrEmptyCart, CodeEmptyCart},
	{domain.ErrInvalidInput, CodeValidation},
	{domain.ErrStore, CodeStore},
}

// ErrorCode clasifica err. Lo no reconocido es INTERNAL.
func ErrorCode(err error) string {
	for _, c := range codeTable {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// Classify convierte err al error expuesto al cliente. Store, pasarela e internos llevan un
// mensaje fijo: el detalle sólo va al log.
func Classify(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	code := ErrorCode(err)
	msg := err.Error()
	switch code {
	case CodeStore:
		msg = domain.ErrStore.Error()
	case CodePaymentGateway:
		msg = domain.ErrPaymentGateway.Error()
	case CodeInternal:
		msg = "error interno"
	}
	return &Error{Code: code, Message: msg, cause: err}
}
