package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/pkg/metrics"
)

func TestCheckoutStep_Cuenta(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.CheckoutStep("CHARGED")
	m.CheckoutStep("CHARGED")
	m.CheckoutStep("COMPLETED")
	m.ObserveCharge("ok", 120*time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "tienda_checkout_steps_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "una serie por estado")

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tienda_checkout_steps_total{status="CHARGED"} 2`)
}

func TestNilMetrics_NoPanic(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.CheckoutStep("PENDING")
		m.ObserveCharge("ok", time.Second)
		m.AuthFailure("FORBIDDEN")
		m.ObserveHTTP("GET", "/", "200", time.Millisecond)
	})
}
