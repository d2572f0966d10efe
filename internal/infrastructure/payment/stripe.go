// Package payment implementa ports.PaymentGateway: Stripe (API REST) y una pasarela falsa.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/tienda-api/internal/application/ports"
)

var _ ports.PaymentGateway = (*StripeGateway)(nil)

// DefaultStripeBaseURL endpoint público de Stripe.
const DefaultStripeBaseURL = "https://api.stripe.com"

// StripeGateway adaptador sobre la API REST de Stripe (POST /v1/charges).
// Usa net/http directamente; no requiere el SDK oficial.
type StripeGateway struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewStripeGateway construye el adaptador. baseURL vacío usa DefaultStripeBaseURL.
func NewStripeGateway(secretKey, baseURL string, timeout time.Duration) *StripeGateway {
	if baseURL == "" {
		baseURL = DefaultStripeBaseURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &StripeGateway{
		secretKey:  secretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type stripeCharge struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Paid     bool   `json:"paid"`
	Status   string `json:"status"`
}

type stripeErrorBody struct {
	Error *struct {
		Type        string `json:"type"`
		Code        string `json:"code"`
		DeclineCode string `json:"decline_code"`
		Message     string `json:"message"`
	} `json:"error"`
}

// CreateCharge crea el cargo. Nunca reintenta: la clave de idempotencia protege
// los reintentos que haga un operador.
func (g *StripeGateway) CreateCharge(ctx context.Context, req ports.ChargeRequest) (*ports.Charge, error) {
	if g.secretKey == "" {
		return nil, fmt.Errorf("stripe: STRIPE_SECRET no configurado: %w", ports.ErrChargeDeclined)
	}
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", req.Currency)
	form.Set("source", req.Source)
	if req.Description != "" {
		form.Set("description", req.Description)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/charges", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("stripe: crear HTTP request: %w", err)
	}
	httpReq.SetBasicAuth(g.secretKey, "")
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stripe: llamada HTTP fallida: %v: %w", err, ports.ErrChargeUnknown)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("stripe: leer respuesta: %v: %w", err, ports.ErrChargeUnknown)
	}

	// 409: otra petición con la misma Idempotency-Key sigue en curso y puede terminar cobrando.
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusConflict {
		return nil, fmt.Errorf("stripe: HTTP %d: %w", resp.StatusCode, ports.ErrChargeUnknown)
	}
	if resp.StatusCode != http.StatusOK {
		var body stripeErrorBody
		if jsonErr := json.Unmarshal(raw, &body); jsonErr == nil && body.Error != nil {
			return nil, fmt.Errorf("stripe: %s (%s): %s: %w", body.Error.Type, body.Error.Code, body.Error.Message, ports.ErrChargeDeclined)
		}
		return nil, fmt.Errorf("stripe: HTTP %d: %w", resp.StatusCode, ports.ErrChargeDeclined)
	}

	var ch stripeCharge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return nil, fmt.Errorf("stripe: deserializar cargo: %v: %w", err, ports.ErrChargeUnknown)
	}
	if !ch.Paid || ch.Status == "failed" {
		return nil, fmt.Errorf("stripe: cargo %s no pagado (status %s): %w", ch.ID, ch.Status, ports.ErrChargeDeclined)
	}
	return &ports.Charge{ID: ch.ID, Amount: ch.Amount, Currency: ch.Currency, Paid: ch.Paid}, nil
}
