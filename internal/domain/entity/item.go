package entity

import "time"

// Item producto publicado en la tienda. Price en unidades menores (centavos).
// UserID (dueño) se fija al crear y no cambia.
type Item struct {
	ID          string
	Title       string
	Description string
	Price       int64
	Image       string
	LargeImage  string
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
