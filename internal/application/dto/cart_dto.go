package dto

// CartItemResponse línea del carrito. Item es nil si el producto fue eliminado.
type CartItemResponse struct {
	ID       string        `json:"id"`
	Quantity int           `json:"quantity"`
	Item     *ItemResponse `json:"item"`
}
