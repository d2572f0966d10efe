// Package checkout orquesta la compra del carrito como un saga con marcas de estado:
//
//	PENDING → CHARGED → ORDER_CREATED → COMPLETED
//
// Cada paso persiste su estado antes de seguir. Un fallo después del cobro nunca reembolsa:
// el registro queda en el último estado alcanzado y el Reconciler lo termina.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-api/internal/application/authz"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/pkg/metrics"
)

// Outcome etiquetas de la métrica de latencia de la pasarela.
const (
	outcomeSuccess  = "success"
	outcomeDeclined = "declined"
	outcomeUnknown  = "unknown"
)

// Service ejecuta createOrder.
type Service struct {
	carts     repository.CartRepository
	orders    repository.OrderRepository
	checkouts repository.CheckoutRepository
	gateway   ports.PaymentGateway
	currency  string
	metrics   *metrics.Metrics
	log       zerolog.Logger
	now       func() time.Time
}

// NewService construye el saga. m puede ser nil.
func NewService(
	carts repository.CartRepository,
	orders repository.OrderRepository,
	checkouts repository.CheckoutRepository,
	gateway ports.PaymentGateway,
	currency string,
	m *metrics.Metrics,
	log zerolog.Logger,
) *Service {
	if currency == "" {
		currency = "usd"
	}
	return &Service{
		carts:     carts,
		orders:    orders,
		checkouts: checkouts,
		gateway:   gateway,
		currency:  currency,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// CreateOrder cobra el carrito de quien llama y lo convierte en pedido.
// El monto se calcula en el servidor; in.ClientAmount sólo se compara y se registra.
func (s *Service) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	p := authz.FromContext(ctx)
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if in.Token == "" {
		return nil, domain.InvalidInput("falta el token de pago")
	}

	lines, err := s.carts.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	snapshot := snapshotCart(lines)
	if len(snapshot) == 0 {
		return nil, domain.ErrEmptyCart
	}
	amount := entity.SnapshotTotal(snapshot)
	if amount > entity.MaxAmount {
		return nil, domain.InvalidInput("el total del carrito supera el máximo permitido (%d)", entity.MaxAmount)
	}
	log := s.log.With().Str("user_id", p.UserID).Int64("amount", amount).Logger()
	if in.ClientAmount != nil && *in.ClientAmount != amount {
		log.Warn().Int64("client_amount", *in.ClientAmount).Msg("monto del cliente ignorado: difiere del carrito")
	}

	now := s.now()
	ck := &entity.Checkout{
		ID:        uuid.New().String(),
		UserID:    p.UserID,
		Amount:    amount,
		Currency:  s.currency,
		Status:    entity.CheckoutPending,
		Snapshot:  snapshot,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.checkouts.Create(ctx, ck); err != nil {
		return nil, err
	}
	s.metrics.CheckoutStep(entity.CheckoutPending)
	log = log.With().Str("checkout_id", ck.ID).Logger()

	start := time.Now()
	charge, err := s.gateway.CreateCharge(ctx, ports.ChargeRequest{
		Amount:         amount,
		Currency:       s.currency,
		Source:         in.Token,
		Description:    fmt.Sprintf("Pedido de %s", p.UserID),
		IdempotencyKey: ck.ID,
	})
	if err != nil {
		if errors.Is(err, ports.ErrChargeDeclined) {
			s.metrics.ObserveCharge(outcomeDeclined, time.Since(start))
			s.advance(ctx, log, ck, entity.CheckoutFailed, err)
			return nil, fmt.Errorf("%w: %v", domain.ErrPaymentDeclined, err)
		}
		s.metrics.ObserveCharge(outcomeUnknown, time.Since(start))
		s.advance(ctx, log, ck, entity.CheckoutChargeUnknown, err)
		log.Error().Err(err).Msg("resultado del cobro desconocido; requiere revisión manual")
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentGateway, err)
	}
	s.metrics.ObserveCharge(outcomeSuccess, time.Since(start))
	ck.ChargeID = charge.ID
	ck.Amount = charge.Amount
	s.advance(ctx, log, ck, entity.CheckoutCharged, nil)

	order, err := s.createOrder(ctx, ck)
	if err != nil {
		log.Error().Err(err).Str("charge_id", ck.ChargeID).Msg("cobro hecho pero el pedido no se pudo crear")
		ck.LastError = err.Error()
		s.save(ctx, log, ck)
		return nil, err
	}
	ck.OrderID = order.ID
	s.advance(ctx, log, ck, entity.CheckoutOrderCreated, nil)

	if err := s.clearCart(ctx, ck); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("pedido creado pero el carrito no se pudo vaciar")
		ck.LastError = err.Error()
		s.save(ctx, log, ck)
		return dto.FromOrder(order), nil
	}
	s.advance(ctx, log, ck, entity.CheckoutCompleted, nil)
	log.Info().Str("order_id", order.ID).Msg("checkout completado")
	return dto.FromOrder(order), nil
}

// createOrder crea el pedido desde el snapshot. El ID del pedido es el del checkout,
// así un reintento del Reconciler no duplica pedidos.
func (s *Service) createOrder(ctx context.Context, ck *entity.Checkout) (*entity.Order, error) {
	now := s.now()
	order := &entity.Order{
		ID:        ck.ID,
		Total:     ck.Amount,
		Charge:    ck.ChargeID,
		Currency:  ck.Currency,
		UserID:    ck.UserID,
		Items:     make([]entity.OrderItem, len(ck.Snapshot)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, l := range ck.Snapshot {
		order.Items[i] = entity.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			Title:       l.Title,
			Description: l.Description,
			Price:       l.Price,
			Image:       l.Image,
			LargeImage:  l.LargeImage,
			Quantity:    l.Quantity,
			UserID:      ck.UserID,
			Position:    i,
		}
	}
	err := s.orders.Create(ctx, order)
	if errors.Is(err, domain.ErrDuplicate) {
		existing, getErr := s.orders.GetByID(ctx, order.ID)
		if getErr != nil {
			return nil, getErr
		}
		if existing != nil {
			return existing, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// clearCart descuenta del carrito sólo las unidades cobradas; lo agregado después del
// snapshot (líneas nuevas o unidades extra de una línea cobrada) se conserva.
func (s *Service) clearCart(ctx context.Context, ck *entity.Checkout) error {
	charged := make(map[string]int, len(ck.Snapshot))
	for _, l := range ck.Snapshot {
		charged[l.CartItemID] += l.Quantity
	}
	return s.carts.DeductCharged(ctx, ck.UserID, charged)
}

// advance fija el estado, lo persiste y cuenta el paso. Un fallo al persistir sólo se registra:
// el efecto externo ya ocurrió y el estado anterior sigue siendo reconciliable.
func (s *Service) advance(ctx context.Context, log zerolog.Logger, ck *entity.Checkout, status string, cause error) {
	ck.Status = status
	if cause != nil {
		ck.LastError = cause.Error()
	} else {
		ck.LastError = ""
	}
	s.save(ctx, log, ck)
	s.metrics.CheckoutStep(status)
}

func (s *Service) save(ctx context.Context, log zerolog.Logger, ck *entity.Checkout) {
	ck.UpdatedAt = s.now()
	if err := s.checkouts.Update(ctx, ck); err != nil {
		log.Error().Err(err).Str("status", ck.Status).Msg("no se pudo guardar el estado del checkout")
	}
}

func snapshotCart(lines []*entity.CartItem) []entity.CartLineSnapshot {
	out := make([]entity.CartLineSnapshot, 0, len(lines))
	for _, l := range lines {
		if l.Item == nil || l.Quantity < 1 {
			continue
		}
		out = append(out, entity.CartLineSnapshot{
			CartItemID:  l.ID,
			ItemID:      l.ItemID,
			Title:       l.Item.Title,
			Description: l.Item.Description,
			Price:       l.Item.Price,
			Image:       l.Item.Image,
			LargeImage:  l.Item.LargeImage,
			Quantity:    l.Quantity,
		})
	}
	return out
}
