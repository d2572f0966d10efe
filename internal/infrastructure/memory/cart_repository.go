package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carrito en memoria. cartByKey hace de índice único (user_id, item_id).
type CartRepo struct{ s *Store }

func (r *CartRepo) GetByID(ctx context.Context, id string) (*entity.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.carts[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CartRepo) FindByUserAndItem(ctx context.Context, userID, itemID string) (*entity.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.cartByKey[cartKey{userID, itemID}]
	if !ok {
		return nil, nil
	}
	c := r.s.carts[id]
	return &c, nil
}

func (r *CartRepo) Create(ctx context.Context, cartItem *entity.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := cartKey{cartItem.UserID, cartItem.ItemID}
	if _, ok := r.s.cartByKey[key]; ok {
		return domain.ErrDuplicate
	}
	c := *cartItem
	c.Item = nil
	r.s.carts[c.ID] = c
	r.s.cartByKey[key] = c.ID
	return nil
}

func (r *CartRepo) Increment(ctx context.Context, id string) (*entity.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Quantity++
	r.s.carts[id] = c
	return &c, nil
}

func (r *CartRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carts[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.s.deleteCartLocked(c)
	return nil
}

func (r *CartRepo) ListByUser(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.CartItem, 0)
	for _, c := range r.s.carts {
		if c.UserID != userID {
			continue
		}
		c := c
		if it, ok := r.s.items[c.ItemID]; ok {
			c.Item = &it
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *CartRepo) DeductCharged(ctx context.Context, userID string, charged map[string]int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, qty := range charged {
		c, ok := r.s.carts[id]
		if !ok || c.UserID != userID {
			continue
		}
		if c.Quantity <= qty {
			r.s.deleteCartLocked(c)
			continue
		}
		c.Quantity -= qty
		r.s.carts[id] = c
	}
	return nil
}

func (s *Store) deleteCartLocked(c entity.CartItem) {
	delete(s.carts, c.ID)
	delete(s.cartByKey, cartKey{c.UserID, c.ItemID})
}
