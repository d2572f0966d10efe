package ports

import (
	"context"
	"errors"
)

// Errores que deben devolver los adaptadores de PaymentGateway.
var (
	// ErrChargeDeclined la pasarela respondió y rechazó el cobro. No hubo cargo.
	ErrChargeDeclined = errors.New("cobro rechazado")
	// ErrChargeUnknown timeout, error de transporte o 5xx. El cargo pudo haberse hecho.
	ErrChargeUnknown = errors.New("resultado del cobro desconocido")
)

// ChargeRequest datos del cobro. Amount en centavos.
type ChargeRequest struct {
	Amount         int64
	Currency       string
	Source         string // token de la tarjeta generado en el cliente
	Description    string
	IdempotencyKey string
}

// Charge cobro aceptado por la pasarela.
type Charge struct {
	ID       string
	Amount   int64
	Currency string
	Paid     bool
}

// PaymentGateway puerto de salida hacia la pasarela de pagos.
// Los adaptadores no reintentan: un error envuelve ErrChargeDeclined o ErrChargeUnknown.
type PaymentGateway interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
}
