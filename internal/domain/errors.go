package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrUnauthenticated       = errors.New("debes iniciar sesión para hacer esto")
	ErrForbidden             = errors.New("no tienes permisos suficientes para hacer esto")
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("no existe un usuario con ese email")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrInvalidCredential     = errors.New("contraseña inválida")
	ErrPasswordMismatch      = errors.New("las contraseñas no coinciden")
	ErrInvalidOrExpiredToken = errors.New("el token de reset es inválido o expiró")
	ErrPaymentDeclined       = errors.New("el pago fue rechazado")
	ErrPaymentGateway        = errors.New("error de la pasarela de pago")
	ErrEmptyCart             = errors.New("el carrito está vacío")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrStore                 = errors.New("error de almacenamiento")
)

// StoreError envuelve un fallo del almacenamiento. errors.Is(err, ErrStore) es verdadero;
// el detalle (Err) se registra en logs pero no se expone al cliente.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError construye el error para la operación op.
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrStore).
func (e *StoreError) Is(target error) bool { return target == ErrStore }

// InvalidInput describe un campo inválido; errors.Is(err, ErrInvalidInput) es verdadero.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
