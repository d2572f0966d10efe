package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo implementación de CartRepository. El constraint cart_items_user_item_key
// garantiza una línea por (user_id, item_id).
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

const cartColumns = `id, quantity, user_id, item_id, created_at`

// GetByID obtiene una línea sin el detalle del item.
func (r *CartRepo) GetByID(ctx context.Context, id string) (*entity.CartItem, error) {
	return r.getOne(ctx, "get cart item", `SELECT `+cartColumns+` FROM cart_items WHERE id = $1`, id)
}

// FindByUserAndItem busca la línea del usuario para ese item.
func (r *CartRepo) FindByUserAndItem(ctx context.Context, userID, itemID string) (*entity.CartItem, error) {
	return r.getOne(ctx, "find cart item",
		`SELECT `+cartColumns+` FROM cart_items WHERE user_id = $1 AND item_id = $2`, userID, itemID)
}

// Create inserta la línea. Si ya existe una para (user, item) retorna domain.ErrDuplicate.
func (r *CartRepo) Create(ctx context.Context, c *entity.CartItem) error {
	_, err := r.q.Exec(ctx, `INSERT INTO cart_items (`+cartColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Quantity, c.UserID, c.ItemID, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storeErr("insert cart item", err)
	}
	return nil
}

// Increment suma 1 en una sola sentencia; no hay lectura previa que pueda quedar obsoleta.
func (r *CartRepo) Increment(ctx context.Context, id string) (*entity.CartItem, error) {
	c, err := scanCartItem(r.q.QueryRow(ctx,
		`UPDATE cart_items SET quantity = quantity + 1 WHERE id = $1 RETURNING `+cartColumns, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr("increment cart item", err)
	}
	return c, nil
}

// Delete borra la línea.
func (r *CartRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete cart item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByUser líneas del usuario con el item (LEFT JOIN: Item nil si fue borrado).
func (r *CartRepo) ListByUser(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT c.id, c.quantity, c.user_id, c.item_id, c.created_at,
		       i.id, i.title, i.description, i.price, i.image, i.large_image, i.user_id, i.created_at, i.updated_at
		FROM cart_items c
		LEFT JOIN items i ON i.id = c.item_id
		WHERE c.user_id = $1
		ORDER BY c.created_at, c.id`, userID)
	if err != nil {
		return nil, storeErr("list cart", err)
	}
	defer rows.Close()

	list := make([]*entity.CartItem, 0)
	for rows.Next() {
		var c entity.CartItem
		var (
			itemID, title, desc, image, largeImage, ownerID *string
			price                                           *int64
			createdAt, updatedAt                            *time.Time
			item                                            entity.Item
		)
		if err := rows.Scan(
			&c.ID, &c.Quantity, &c.UserID, &c.ItemID, &c.CreatedAt,
			&itemID, &title, &desc, &price, &image, &largeImage, &ownerID, &createdAt, &updatedAt,
		); err != nil {
			return nil, storeErr("scan cart", err)
		}
		if itemID != nil {
			item.ID = *itemID
			item.Title = derefString(title)
			item.Description = derefString(desc)
			item.Image = derefString(image)
			item.LargeImage = derefString(largeImage)
			item.UserID = derefString(ownerID)
			if price != nil {
				item.Price = *price
			}
			if createdAt != nil {
				item.CreatedAt = *createdAt
			}
			if updatedAt != nil {
				item.UpdatedAt = *updatedAt
			}
			c.Item = &item
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list cart", err)
	}
	return list, nil
}

// DeductCharged resta las cantidades cobradas en una sola sentencia: el DELETE y el UPDATE
// del CTE ven la misma instantánea, así sus condiciones no se solapan.
func (r *CartRepo) DeductCharged(ctx context.Context, userID string, charged map[string]int) error {
	if len(charged) == 0 {
		return nil
	}
	ids := make([]string, 0, len(charged))
	qtys := make([]int32, 0, len(charged))
	for id, q := range charged {
		ids = append(ids, id)
		qtys = append(qtys, int32(q))
	}
	_, err := r.q.Exec(ctx, `
		WITH charged AS (
			SELECT * FROM unnest($2::text[], $3::int[]) AS t(id, qty)
		), removed AS (
			DELETE FROM cart_items c USING charged
			WHERE c.id = charged.id AND c.user_id = $1 AND c.quantity <= charged.qty
		)
		UPDATE cart_items c SET quantity = c.quantity - charged.qty
		FROM charged
		WHERE c.id = charged.id AND c.user_id = $1 AND c.quantity > charged.qty`,
		userID, ids, qtys)
	if err != nil {
		return storeErr("deduct cart items", err)
	}
	return nil
}

func (r *CartRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.CartItem, error) {
	c, err := scanCartItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storeErr(op, err)
	}
	return c, nil
}

func scanCartItem(row pgxScanner) (*entity.CartItem, error) {
	var c entity.CartItem
	if err := row.Scan(&c.ID, &c.Quantity, &c.UserID, &c.ItemID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
