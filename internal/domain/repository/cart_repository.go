package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// CartRepository define el puerto de persistencia para CartItem.
type CartRepository interface {
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.CartItem, error)
	// FindByUserAndItem devuelve (nil, nil) si el usuario no tiene ese item en el carrito.
	FindByUserAndItem(ctx context.Context, userID, itemID string) (*entity.CartItem, error)
	// Create retorna domain.ErrDuplicate si ya existe una línea para (UserID, ItemID).
	Create(ctx context.Context, cartItem *entity.CartItem) error
	// Increment suma 1 a la cantidad en el store y devuelve la línea actualizada.
	Increment(ctx context.Context, id string) (*entity.CartItem, error)
	Delete(ctx context.Context, id string) error
	// ListByUser devuelve las líneas del usuario con Item cargado (nil si el item ya no existe).
	ListByUser(ctx context.Context, userID string) ([]*entity.CartItem, error)
	// DeductCharged resta de cada línea de userID la cantidad cobrada (id → cantidad)
	// y borra las que quedan en cero. Se aplica todo o nada.
	DeductCharged(ctx context.Context, userID string, charged map[string]int) error
}
