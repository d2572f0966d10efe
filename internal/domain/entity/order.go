package entity

import "time"

// Order pedido pagado. Total es el monto autoritativo devuelto por la pasarela.
type Order struct {
	ID        string
	Total     int64
	Charge    string // ID del cobro en la pasarela
	Currency  string
	UserID    string
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem copia inmutable de un Item al momento del checkout.
// No referencia al Item original: editarlo o borrarlo no altera pedidos históricos.
type OrderItem struct {
	ID          string
	OrderID     string
	Title       string
	Description string
	Price       int64
	Image       string
	LargeImage  string
	Quantity    int
	UserID      string
	Position    int
}

// Subtotal precio × cantidad de la línea.
func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}
