package payment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/infrastructure/payment"
)

func chargeReq() ports.ChargeRequest {
	return ports.ChargeRequest{Amount: 4200, Currency: "usd", Source: "tok_visa", IdempotencyKey: "ck-1"}
}

func TestStripe_CargoExitoso(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/charges", r.URL.Path)
		assert.Equal(t, "ck-1", r.Header.Get("Idempotency-Key"))
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "sk_test", user)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "4200", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "tok_visa", r.PostForm.Get("source"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ch_123","amount":4200,"currency":"usd","paid":true,"status":"succeeded"}`))
	}))
	defer srv.Close()

	ch, err := payment.NewStripeGateway("sk_test", srv.URL, time.Second).CreateCharge(context.Background(), chargeReq())
	require.NoError(t, err)
	assert.Equal(t, "ch_123", ch.ID)
	assert.Equal(t, int64(4200), ch.Amount)
}

func TestStripe_TarjetaRechazada(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	}))
	defer srv.Close()

	_, err := payment.NewStripeGateway("sk_test", srv.URL, time.Second).CreateCharge(context.Background(), chargeReq())
	assert.ErrorIs(t, err, ports.ErrChargeDeclined)
	assert.Contains(t, err.Error(), "card_declined")
}

func TestStripe_Error5xxEsDesconocido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := payment.NewStripeGateway("sk_test", srv.URL, time.Second).CreateCharge(context.Background(), chargeReq())
	assert.ErrorIs(t, err, ports.ErrChargeUnknown)
}

func TestStripe_ConflictoDeIdempotenciaEsDesconocido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"type":"idempotency_error","message":"There is currently another in-progress request using this Idempotent Key."}}`))
	}))
	defer srv.Close()

	_, err := payment.NewStripeGateway("sk_test", srv.URL, time.Second).CreateCharge(context.Background(), chargeReq())
	assert.ErrorIs(t, err, ports.ErrChargeUnknown)
	assert.NotErrorIs(t, err, ports.ErrChargeDeclined)
}

func TestStripe_TimeoutEsDesconocido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := payment.NewStripeGateway("sk_test", srv.URL, 20*time.Millisecond).CreateCharge(context.Background(), chargeReq())
	assert.ErrorIs(t, err, ports.ErrChargeUnknown)
}

func TestFakeGateway(t *testing.T) {
	g := payment.NewFakeGateway()
	ctx := context.Background()

	a, err := g.CreateCharge(ctx, chargeReq())
	require.NoError(t, err)
	b, err := g.CreateCharge(ctx, chargeReq())
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID, "misma clave de idempotencia, mismo cargo")

	_, err = g.CreateCharge(ctx, ports.ChargeRequest{Amount: 1, Source: payment.FakeTokenDecline})
	assert.ErrorIs(t, err, ports.ErrChargeDeclined)

	_, err = g.CreateCharge(ctx, ports.ChargeRequest{Amount: 1, Source: payment.FakeTokenUnknown})
	assert.ErrorIs(t, err, ports.ErrChargeUnknown)

	assert.Len(t, g.Requests(), 4)
}
