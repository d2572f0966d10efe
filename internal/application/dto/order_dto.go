package dto

import "time"

// CreateOrderRequest entrada de createOrder. Token es la fuente de pago de la pasarela.
// ClientAmount es informativo: el monto cobrado siempre se calcula en el servidor.
type CreateOrderRequest struct {
	Token        string `json:"token"`
	ClientAmount *int64 `json:"amount,omitempty"`
}

// OrderResponse pedido con sus líneas.
type OrderResponse struct {
	ID             string              `json:"id"`
	Total          int64               `json:"total"`
	FormattedTotal string              `json:"formattedTotal"`
	Charge         string              `json:"charge"`
	Currency       string              `json:"currency"`
	UserID         string              `json:"userId"`
	Items          []OrderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// OrderItemResponse línea de pedido (copia del item al momento de la compra).
type OrderItemResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	LargeImage  string `json:"largeImage"`
	Quantity    int    `json:"quantity"`
}
