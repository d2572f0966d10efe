package entity

import (
	"math"
	"time"
)

// MaxAmount tope de precios y totales en unidades menores: el API los expone como Int de 32 bits.
const MaxAmount int64 = math.MaxInt32

// Estados del checkout. Cada paso exitoso avanza el estado:
//
//	PENDING → CHARGED → ORDER_CREATED → COMPLETED
//
// FAILED: la pasarela rechazó el cobro (nada que reconciliar).
// CHARGE_UNKNOWN: timeout o error de transporte; el cobro pudo haberse hecho.
const (
	CheckoutPending       = "PENDING"
	CheckoutCharged       = "CHARGED"
	CheckoutOrderCreated  = "ORDER_CREATED"
	CheckoutCompleted     = "COMPLETED"
	CheckoutFailed        = "FAILED"
	CheckoutChargeUnknown = "CHARGE_UNKNOWN"
)

// Checkout registro del saga de compra. Snapshot es la foto del carrito con la que se cobró.
type Checkout struct {
	ID        string
	UserID    string
	Amount    int64
	Currency  string
	Status    string
	ChargeID  string
	OrderID   string
	Snapshot  []CartLineSnapshot
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLineSnapshot copia de una línea del carrito en el instante del cobro.
type CartLineSnapshot struct {
	CartItemID  string `json:"cart_item_id"`
	ItemID      string `json:"item_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	LargeImage  string `json:"large_image"`
	Quantity    int    `json:"quantity"`
}

// SnapshotTotal Σ(price × quantity) de las líneas.
func SnapshotTotal(lines []CartLineSnapshot) int64 {
	var total int64
	for _, l := range lines {
		total += l.Price * int64(l.Quantity)
	}
	return total
}
