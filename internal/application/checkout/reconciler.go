package checkout

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// Report resultado de una pasada del Reconciler.
type Report struct {
	Completed int // llegaron a COMPLETED
	Pending   int // avanzaron pero siguen sin completar
	Unknown   int // CHARGE_UNKNOWN; requieren revisión manual
}

// Reconciler termina checkouts que quedaron a medias después del cobro.
// Nunca toca la pasarela: CHARGE_UNKNOWN sólo se reporta.
type Reconciler struct {
	svc *Service
	log zerolog.Logger
}

// NewReconciler construye el reconciliador sobre los mismos repositorios del saga.
func NewReconciler(svc *Service, log zerolog.Logger) *Reconciler {
	return &Reconciler{svc: svc, log: log}
}

// ReconcileStale procesa los checkouts sin cambios desde hace más de olderThan.
func (r *Reconciler) ReconcileStale(ctx context.Context, olderThan time.Duration) (Report, error) {
	var rep Report
	before := r.svc.now().Add(-olderThan)
	stale, err := r.svc.checkouts.ListStale(ctx, []string{
		entity.CheckoutCharged,
		entity.CheckoutOrderCreated,
		entity.CheckoutChargeUnknown,
	}, before)
	if err != nil {
		return rep, err
	}

	for _, ck := range stale {
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}
		log := r.log.With().Str("checkout_id", ck.ID).Str("status", ck.Status).Logger()
		switch ck.Status {
		case entity.CheckoutChargeUnknown:
			rep.Unknown++
			log.Warn().Str("user_id", ck.UserID).Int64("amount", ck.Amount).Msg("cobro en estado desconocido; revisar en la pasarela")
			continue
		case entity.CheckoutCharged:
			order, err := r.svc.createOrder(ctx, ck)
			if err != nil {
				rep.Pending++
				log.Error().Err(err).Msg("reintento de creación de pedido falló")
				continue
			}
			ck.OrderID = order.ID
			r.svc.advance(ctx, log, ck, entity.CheckoutOrderCreated, nil)
		}

		if err := r.svc.clearCart(ctx, ck); err != nil {
			rep.Pending++
			log.Error().Err(err).Msg("reintento de vaciado de carrito falló")
			continue
		}
		r.svc.advance(ctx, log, ck, entity.CheckoutCompleted, nil)
		rep.Completed++
		log.Info().Str("order_id", ck.OrderID).Msg("checkout reconciliado")
	}
	return rep, nil
}

// Run ejecuta ReconcileStale cada interval hasta que ctx se cancele.
func (r *Reconciler) Run(ctx context.Context, interval, olderThan time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rep, err := r.ReconcileStale(ctx, olderThan)
			if err != nil {
				r.log.Error().Err(err).Msg("reconciliación de checkouts falló")
				continue
			}
			if rep != (Report{}) {
				r.log.Info().Int("completed", rep.Completed).Int("pending", rep.Pending).Int("unknown", rep.Unknown).Msg("reconciliación de checkouts")
			}
		}
	}
}
