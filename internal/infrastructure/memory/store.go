// Package memory implementa los puertos de persistencia en memoria (desarrollo y tests).
package memory

import (
	"sync"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// Store estado compartido de todos los repositorios en memoria. Un único RWMutex protege
// todos los mapas, así las operaciones multi-tabla (pedido + líneas) son atómicas.
type Store struct {
	mu sync.RWMutex

	users        map[string]entity.User
	userIDByMail map[string]string
	items        map[string]entity.Item
	carts        map[string]entity.CartItem
	cartByKey    map[cartKey]string
	orders       map[string]entity.Order
	checkouts    map[string]entity.Checkout
}

type cartKey struct {
	userID string
	itemID string
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:        make(map[string]entity.User),
		userIDByMail: make(map[string]string),
		items:        make(map[string]entity.Item),
		carts:        make(map[string]entity.CartItem),
		cartByKey:    make(map[cartKey]string),
		orders:       make(map[string]entity.Order),
		checkouts:    make(map[string]entity.Checkout),
	}
}

// Users repositorio de usuarios sobre el store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Items repositorio de items sobre el store.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Carts repositorio del carrito sobre el store.
func (s *Store) Carts() *CartRepo { return &CartRepo{s: s} }

// Orders repositorio de pedidos sobre el store.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// Checkouts repositorio de checkouts sobre el store.
func (s *Store) Checkouts() *CheckoutRepo { return &CheckoutRepo{s: s} }

func cloneUser(u entity.User) *entity.User {
	u.Permissions = append([]entity.Permission(nil), u.Permissions...)
	if u.ResetToken != nil {
		t := *u.ResetToken
		u.ResetToken = &t
	}
	if u.ResetTokenExpiry != nil {
		e := *u.ResetTokenExpiry
		u.ResetTokenExpiry = &e
	}
	return &u
}

func cloneOrder(o entity.Order) *entity.Order {
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	return &o
}

func cloneCheckout(c entity.Checkout) *entity.Checkout {
	c.Snapshot = append([]entity.CartLineSnapshot(nil), c.Snapshot...)
	return &c
}
