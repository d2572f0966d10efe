package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo items en memoria.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.items[item.ID] = *item
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Title = item.Title
	cur.Description = item.Description
	cur.Price = item.Price
	cur.Image = item.Image
	cur.LargeImage = item.LargeImage
	cur.UpdatedAt = item.UpdatedAt
	r.s.items[item.ID] = cur
	return nil
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	r.s.mu.RLock()
	all := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		it := it
		all = append(all, &it)
	}
	r.s.mu.RUnlock()

	sort.SliceStable(all, itemLess(all, filter.OrderBy))

	if filter.Skip >= len(all) {
		return []*entity.Item{}, nil
	}
	all = all[filter.Skip:]
	if filter.First > 0 && filter.First < len(all) {
		all = all[:filter.First]
	}
	return all, nil
}

func (r *ItemRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.items), nil
}

func itemLess(items []*entity.Item, orderBy string) func(i, j int) bool {
	switch orderBy {
	case repository.ItemOrderCreatedAtAsc:
		return func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) }
	case repository.ItemOrderPriceAsc:
		return func(i, j int) bool { return items[i].Price < items[j].Price }
	case repository.ItemOrderPriceDesc:
		return func(i, j int) bool { return items[i].Price > items[j].Price }
	default:
		return func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) }
	}
}
