package entity

import "time"

// CartItem línea del carrito. Quantity >= 1; una cantidad 0 se representa borrando la línea.
// Hay a lo sumo una línea por (UserID, ItemID).
type CartItem struct {
	ID        string
	Quantity  int
	UserID    string
	ItemID    string
	Item      *Item // cargado por ListByUser; nil si el item fue eliminado
	CreatedAt time.Time
}

// LineTotal precio × cantidad en centavos. 0 si el item no está cargado.
func (c *CartItem) LineTotal() int64 {
	if c.Item == nil {
		return 0
	}
	return c.Item.Price * int64(c.Quantity)
}
