package dto

import (
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/pkg/money"
)

// FromUser mapea la entidad a la respuesta. cart puede ser nil.
func FromUser(u *entity.User, cart []*entity.CartItem) *UserResponse {
	if u == nil {
		return nil
	}
	perms := make([]string, len(u.Permissions))
	for i, p := range u.Permissions {
		perms[i] = string(p)
	}
	lines := make([]CartItemResponse, 0, len(cart))
	for _, c := range cart {
		lines = append(lines, *FromCartItem(c))
	}
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Permissions: perms,
		Cart:        lines,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// FromItem mapea un item.
func FromItem(it *entity.Item) *ItemResponse {
	if it == nil {
		return nil
	}
	return &ItemResponse{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Price:       it.Price,
		Image:       it.Image,
		LargeImage:  it.LargeImage,
		UserID:      it.UserID,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

// FromCartItem mapea una línea del carrito.
func FromCartItem(c *entity.CartItem) *CartItemResponse {
	if c == nil {
		return nil
	}
	return &CartItemResponse{
		ID:       c.ID,
		Quantity: c.Quantity,
		Item:     FromItem(c.Item),
	}
}

// FromOrder mapea un pedido con sus líneas.
func FromOrder(o *entity.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			Price:       it.Price,
			Image:       it.Image,
			LargeImage:  it.LargeImage,
			Quantity:    it.Quantity,
		}
	}
	return &OrderResponse{
		ID:             o.ID,
		Total:          o.Total,
		FormattedTotal: money.FormatWithCurrency(o.Total, o.Currency),
		Charge:         o.Charge,
		Currency:       o.Currency,
		UserID:         o.UserID,
		Items:          items,
		CreatedAt:      o.CreatedAt,
	}
}
