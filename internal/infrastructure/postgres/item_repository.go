package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, title, description, price, image, large_image, user_id, created_at, updated_at`

// orderClauses lista blanca de ORDER BY; nunca se interpola texto del cliente.
var orderClauses = map[string]string{
	repository.ItemOrderCreatedAtDesc: "created_at DESC, id",
	repository.ItemOrderCreatedAtAsc:  "created_at ASC, id",
	repository.ItemOrderPriceAsc:      "price ASC, id",
	repository.ItemOrderPriceDesc:     "price DESC, id",
}

// Create persiste el item.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.Title, item.Description, item.Price, item.Image, item.LargeImage,
		item.UserID, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storeErr("insert item", err)
	}
	return nil
}

// GetByID obtiene un item con su dueño.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storeErr("get item", err)
	}
	return it, nil
}

// Update escribe los campos editables; id y user_id no cambian.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE items SET title = $2, description = $3, price = $4, image = $5, large_image = $6, updated_at = $7
		WHERE id = $1`,
		item.ID, item.Title, item.Description, item.Price, item.Image, item.LargeImage, item.UpdatedAt,
	)
	if err != nil {
		return storeErr("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el item. Las líneas de carrito que lo referencian se conservan.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List listado paginado.
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	orderBy, ok := orderClauses[filter.OrderBy]
	if !ok {
		orderBy = orderClauses[repository.ItemOrderCreatedAtDesc]
	}
	query := fmt.Sprintf(`SELECT %s FROM items ORDER BY %s OFFSET $1`, itemColumns, orderBy)
	args := []any{filter.Skip}
	if filter.First > 0 {
		query += ` LIMIT $2`
		args = append(args, filter.First)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list items", err)
	}
	defer rows.Close()
	list := make([]*entity.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, storeErr("scan item", err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list items", err)
	}
	return list, nil
}

// Count total de items.
func (r *ItemRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM items`).Scan(&n); err != nil {
		return 0, storeErr("count items", err)
	}
	return n, nil
}

func scanItem(row pgxScanner) (*entity.Item, error) {
	var it entity.Item
	if err := row.Scan(
		&it.ID, &it.Title, &it.Description, &it.Price, &it.Image, &it.LargeImage,
		&it.UserID, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}
