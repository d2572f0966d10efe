package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-api/internal/application/ports"
)

var _ ports.PaymentGateway = (*FakeGateway)(nil)

// Tokens especiales de FakeGateway.
const (
	FakeTokenDecline = "tok_chargeDeclined"
	FakeTokenUnknown = "tok_gatewayTimeout"
)

// FakeGateway pasarela determinista para desarrollo y tests. Aprueba todo salvo los tokens
// especiales y respeta la idempotencia: la misma clave devuelve el mismo cargo.
type FakeGateway struct {
	mu      sync.Mutex
	byKey   map[string]*ports.Charge
	charges []ports.ChargeRequest
}

// NewFakeGateway construye la pasarela falsa.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{byKey: make(map[string]*ports.Charge)}
}

// CreateCharge registra la petición y responde según el token.
func (g *FakeGateway) CreateCharge(ctx context.Context, req ports.ChargeRequest) (*ports.Charge, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fake: %v: %w", err, ports.ErrChargeUnknown)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges = append(g.charges, req)

	switch {
	case strings.EqualFold(req.Source, FakeTokenDecline):
		return nil, fmt.Errorf("fake: tarjeta rechazada: %w", ports.ErrChargeDeclined)
	case strings.EqualFold(req.Source, FakeTokenUnknown):
		return nil, fmt.Errorf("fake: timeout simulado: %w", ports.ErrChargeUnknown)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("fake: monto inválido %d: %w", req.Amount, ports.ErrChargeDeclined)
	}
	if ch, ok := g.byKey[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		cp := *ch
		return &cp, nil
	}
	ch := &ports.Charge{ID: "ch_" + uuid.New().String(), Amount: req.Amount, Currency: req.Currency, Paid: true}
	if req.IdempotencyKey != "" {
		g.byKey[req.IdempotencyKey] = ch
	}
	cp := *ch
	return &cp, nil
}

// Requests devuelve una copia de las peticiones recibidas.
func (g *FakeGateway) Requests() []ports.ChargeRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]ports.ChargeRequest(nil), g.charges...)
}
