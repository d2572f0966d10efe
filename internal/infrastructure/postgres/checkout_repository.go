package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.CheckoutRepository = (*CheckoutRepo)(nil)

// CheckoutRepo persiste el saga de checkout. El snapshot del carrito va en JSONB.
type CheckoutRepo struct {
	q Querier
}

// NewCheckoutRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCheckoutRepository(q Querier) *CheckoutRepo {
	return &CheckoutRepo{q: q}
}

const checkoutColumns = `id, user_id, amount, currency, status, charge_id, order_id, snapshot, last_error, created_at, updated_at`

// Create inserta el registro en estado inicial.
func (r *CheckoutRepo) Create(ctx context.Context, c *entity.Checkout) error {
	snapshot, err := json.Marshal(c.Snapshot)
	if err != nil {
		return storeErr("marshal checkout snapshot", err)
	}
	_, err = r.q.Exec(ctx, `INSERT INTO checkouts (`+checkoutColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.UserID, c.Amount, c.Currency, c.Status, nullIfEmpty(c.ChargeID), nullIfEmpty(c.OrderID),
		snapshot, nullIfEmpty(c.LastError), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storeErr("insert checkout", err)
	}
	return nil
}

// Update escribe estado, cargo, pedido y último error. El snapshot no cambia.
func (r *CheckoutRepo) Update(ctx context.Context, c *entity.Checkout) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE checkouts SET amount = $2, status = $3, charge_id = $4, order_id = $5, last_error = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Amount, c.Status, nullIfEmpty(c.ChargeID), nullIfEmpty(c.OrderID), nullIfEmpty(c.LastError), c.UpdatedAt)
	if err != nil {
		return storeErr("update checkout", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene el checkout.
func (r *CheckoutRepo) GetByID(ctx context.Context, id string) (*entity.Checkout, error) {
	c, err := scanCheckout(r.q.QueryRow(ctx, `SELECT `+checkoutColumns+` FROM checkouts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storeErr("get checkout", err)
	}
	return c, nil
}

// ListStale checkouts en alguno de statuses sin cambios desde before, más antiguos primero.
func (r *CheckoutRepo) ListStale(ctx context.Context, statuses []string, before time.Time) ([]*entity.Checkout, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+checkoutColumns+` FROM checkouts
		WHERE status = ANY($1) AND updated_at < $2
		ORDER BY updated_at
		LIMIT 100`, statuses, before)
	if err != nil {
		return nil, storeErr("list stale checkouts", err)
	}
	defer rows.Close()
	list := make([]*entity.Checkout, 0)
	for rows.Next() {
		c, err := scanCheckout(rows)
		if err != nil {
			return nil, storeErr("scan checkout", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list stale checkouts", err)
	}
	return list, nil
}

func scanCheckout(row pgxScanner) (*entity.Checkout, error) {
	var c entity.Checkout
	var chargeID, orderID, lastError *string
	var snapshot []byte
	if err := row.Scan(&c.ID, &c.UserID, &c.Amount, &c.Currency, &c.Status, &chargeID, &orderID,
		&snapshot, &lastError, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ChargeID = derefString(chargeID)
	c.OrderID = derefString(orderID)
	c.LastError = derefString(lastError)
	if err := json.Unmarshal(snapshot, &c.Snapshot); err != nil {
		return nil, err
	}
	return &c, nil
}
