package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, total, charge, currency, user_id, created_at, updated_at`

const orderItemColumns = `id, order_id, title, description, price, image, large_image, quantity, user_id, position`

// Create inserta cabecera y líneas en una transacción (savepoint si q ya es una tx).
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	b, ok := r.q.(txBeginner)
	if !ok {
		return r.insert(ctx, r.q, order)
	}
	return runInTx(ctx, b, func(q Querier) error {
		return r.insert(ctx, q, order)
	})
}

func (r *OrderRepo) insert(ctx context.Context, q Querier, order *entity.Order) error {
	_, err := q.Exec(ctx, `INSERT INTO orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.Total, order.Charge, order.Currency, order.UserID, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storeErr("insert order", err)
	}

	batch := &pgx.Batch{}
	for _, it := range order.Items {
		batch.Queue(`INSERT INTO order_items (`+orderItemColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			it.ID, order.ID, it.Title, it.Description, it.Price, it.Image, it.LargeImage, it.Quantity, it.UserID, it.Position)
	}
	if batch.Len() == 0 {
		return nil
	}
	sender, ok := q.(interface {
		SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	})
	if !ok {
		return fmt.Errorf("insert order items: el Querier no soporta batches")
	}
	br := sender.SendBatch(ctx, batch)
	for range order.Items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return storeErr("insert order item", err)
		}
	}
	if err := br.Close(); err != nil {
		return storeErr("insert order items", err)
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas ordenadas por posición.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storeErr("get order", err)
	}
	items, err := r.listItems(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// ListByUser pedidos del usuario, más reciente primero, con sus líneas.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, storeErr("list orders", err)
	}
	defer rows.Close()
	list := make([]*entity.Order, 0)
	ids := make([]string, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, storeErr("scan order", err)
		}
		list = append(list, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list orders", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return list, nil
	}
	items, err := r.listItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range list {
		o.Items = items[o.ID]
	}
	return list, nil
}

func (r *OrderRepo) listItems(ctx context.Context, orderIDs []string) (map[string][]entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+orderItemColumns+` FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`, orderIDs)
	if err != nil {
		return nil, storeErr("list order items", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.OrderItem, len(orderIDs))
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Title, &it.Description, &it.Price,
			&it.Image, &it.LargeImage, &it.Quantity, &it.UserID, &it.Position); err != nil {
			return nil, storeErr("scan order item", err)
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list order items", err)
	}
	return out, nil
}

func scanOrder(row pgxScanner) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(&o.ID, &o.Total, &o.Charge, &o.Currency, &o.UserID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
