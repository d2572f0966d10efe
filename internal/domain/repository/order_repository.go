package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	// Create persiste la cabecera y todas las líneas de forma atómica.
	Create(ctx context.Context, order *entity.Order) error
	// GetByID devuelve el pedido con sus líneas, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// ListByUser filtra en el store por dueño; más reciente primero.
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)
}

// CheckoutRepository persiste el registro del saga de checkout.
type CheckoutRepository interface {
	Create(ctx context.Context, checkout *entity.Checkout) error
	Update(ctx context.Context, checkout *entity.Checkout) error
	GetByID(ctx context.Context, id string) (*entity.Checkout, error)
	// ListStale devuelve checkouts en alguno de statuses con UpdatedAt < before.
	ListStale(ctx context.Context, statuses []string, before time.Time) ([]*entity.Checkout, error)
}
