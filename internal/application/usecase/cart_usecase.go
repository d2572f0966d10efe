package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-api/internal/application/authz"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// CartUseCase casos de uso del carrito de quien llama.
type CartUseCase struct {
	carts repository.CartRepository
	items repository.ItemRepository
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(carts repository.CartRepository, items repository.ItemRepository) *CartUseCase {
	return &CartUseCase{carts: carts, items: items}
}

// Add suma una unidad del item al carrito; crea la línea si no existe.
//
// Dos peticiones concurrentes pueden no ver la línea y ambas intentar crearla. El índice único
// (user_id, item_id) hace fallar a la segunda con ErrDuplicate, que entonces incrementa.
func (uc *CartUseCase) Add(ctx context.Context, itemID string) (*dto.CartItemResponse, error) {
	p := authz.FromContext(ctx)
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	existing, err := uc.carts.FindByUserAndItem(ctx, p.UserID, itemID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		line := &entity.CartItem{
			ID:        uuid.New().String(),
			Quantity:  1,
			UserID:    p.UserID,
			ItemID:    itemID,
			CreatedAt: time.Now(),
		}
		err = uc.carts.Create(ctx, line)
		if err == nil {
			line.Item = item
			return dto.FromCartItem(line), nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		existing, err = uc.carts.FindByUserAndItem(ctx, p.UserID, itemID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
	}

	updated, err := uc.carts.Increment(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	updated.Item = item
	return dto.FromCartItem(updated), nil
}

// Remove borra una línea del carrito. Sólo su dueño.
func (uc *CartUseCase) Remove(ctx context.Context, id string) (*dto.CartItemResponse, error) {
	p := authz.FromContext(ctx)
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	line, err := uc.carts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	if line.UserID != p.UserID {
		return nil, domain.ErrForbidden
	}
	if err := uc.carts.Delete(ctx, id); err != nil {
		return nil, err
	}
	return dto.FromCartItem(line), nil
}

// List líneas del carrito de userID con el detalle del item.
func (uc *CartUseCase) List(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	return uc.carts.ListByUser(ctx, userID)
}
