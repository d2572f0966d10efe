package usecase

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/application/authz"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// OrderUseCase lecturas de pedidos y comprobante PDF.
type OrderUseCase struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	receipts ports.ReceiptPDFGenerator
}

// NewOrderUseCase construye el caso de uso. receipts puede ser nil si no se sirve el PDF.
func NewOrderUseCase(orders repository.OrderRepository, users repository.UserRepository, receipts ports.ReceiptPDFGenerator) *OrderUseCase {
	return &OrderUseCase{orders: orders, users: users, receipts: receipts}
}

// Get devuelve el pedido si quien llama es su dueño o ADMIN.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromOrder(order), nil
}

// List pedidos de quien llama, más reciente primero.
func (uc *OrderUseCase) List(ctx context.Context) ([]*dto.OrderResponse, error) {
	p := authz.FromContext(ctx)
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	orders, err := uc.orders.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = dto.FromOrder(o)
	}
	return out, nil
}

// Receipt genera el PDF del pedido con las mismas reglas de acceso que Get.
func (uc *OrderUseCase) Receipt(ctx context.Context, id string) ([]byte, error) {
	order, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if uc.receipts == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.users.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		customer = &entity.User{ID: order.UserID}
	}
	return uc.receipts.GenerateOrderReceipt(order, customer)
}

func (uc *OrderUseCase) load(ctx context.Context, id string) (*entity.Order, error) {
	p := authz.FromContext(ctx)
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if err := authz.RequireOwnerOrPermission(p, order.UserID, entity.PermissionAdmin); err != nil {
		return nil, err
	}
	return order, nil
}
