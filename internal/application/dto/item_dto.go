package dto

import "time"

// CreateItemRequest entrada de createItem. Price en centavos.
type CreateItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	LargeImage  string `json:"largeImage"`
}

// UpdateItemRequest actualización parcial: sólo se aplican los campos no nil.
type UpdateItemRequest struct {
	ID          string  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	Image       *string `json:"image,omitempty"`
	LargeImage  *string `json:"largeImage,omitempty"`
}

// ItemListRequest paginación y orden del listado público.
type ItemListRequest struct {
	PageRequest
	OrderBy string `json:"orderBy" query:"orderBy"`
}

// ItemResponse item en respuestas.
type ItemResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Image       string    `json:"image"`
	LargeImage  string    `json:"largeImage"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ItemConnection agregado del listado (itemsConnection).
type ItemConnection struct {
	Aggregate AggregateCount `json:"aggregate"`
}

// AggregateCount conteo total.
type AggregateCount struct {
	Count int `json:"count"`
}
