package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// Orden de listado de items.
const (
	ItemOrderCreatedAtDesc = "createdAt_DESC"
	ItemOrderCreatedAtAsc  = "createdAt_ASC"
	ItemOrderPriceAsc      = "price_ASC"
	ItemOrderPriceDesc     = "price_DESC"
)

// ItemFilter paginación y orden del listado.
type ItemFilter struct {
	Skip    int
	First   int
	OrderBy string
}

// ItemRepository define el puerto de persistencia para Item.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// Update escribe título, descripción, precio e imágenes. Nunca cambia ID ni dueño.
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
	Count(ctx context.Context) (int, error)
}
