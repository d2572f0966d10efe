package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository    = (*OrderRepo)(nil)
	_ repository.CheckoutRepository = (*CheckoutRepo)(nil)
)

// OrderRepo pedidos en memoria.
type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.orders[order.ID] = *cloneOrder(*order)
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Order, 0)
	for _, o := range r.s.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CheckoutRepo registros del saga en memoria.
type CheckoutRepo struct{ s *Store }

func (r *CheckoutRepo) Create(ctx context.Context, checkout *entity.Checkout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.checkouts[checkout.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.checkouts[checkout.ID] = *cloneCheckout(*checkout)
	return nil
}

func (r *CheckoutRepo) Update(ctx context.Context, checkout *entity.Checkout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.checkouts[checkout.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.checkouts[checkout.ID] = *cloneCheckout(*checkout)
	return nil
}

func (r *CheckoutRepo) GetByID(ctx context.Context, id string) (*entity.Checkout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.checkouts[id]
	if !ok {
		return nil, nil
	}
	return cloneCheckout(c), nil
}

func (r *CheckoutRepo) ListStale(ctx context.Context, statuses []string, before time.Time) ([]*entity.Checkout, error) {
	wanted := make(map[string]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Checkout, 0)
	for _, c := range r.s.checkouts {
		if wanted[c.Status] && c.UpdatedAt.Before(before) {
			out = append(out, cloneCheckout(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}
