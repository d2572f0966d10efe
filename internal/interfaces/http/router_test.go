package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/checkout"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/infrastructure/mail"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-api/internal/infrastructure/payment"
	"github.com/jhoicas/tienda-api/internal/infrastructure/pdf"
	apigraphql "github.com/jhoicas/tienda-api/internal/interfaces/graphql"
	apphttp "github.com/jhoicas/tienda-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-api/pkg/config"
	"github.com/jhoicas/tienda-api/pkg/jwt"
	"github.com/jhoicas/tienda-api/pkg/metrics"
	"github.com/jhoicas/tienda-api/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	app   *fiber.App
	store *memory.Store
	codec *jwt.Codec
}

// buildTestApp arma la aplicación completa sobre el store en memoria y la pasarela falsa.
func buildTestApp(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	codec, err := jwt.NewCodec(jwt.Config{Secret: "test-secret-key-for-unit-tests", Issuer: "tienda-test", TTL: time.Hour})
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	log := zerolog.Nop()

	orderUC := usecase.NewOrderUseCase(store.Orders(), store.Users(), pdf.NewReceiptGenerator("Tienda"))
	schema, err := apigraphql.NewSchema(&apigraphql.Resolver{
		Auth: auth.NewAuthUseCase(store.Users(), password.NewHasher(bcrypt.MinCost), codec,
			mail.NewLogMailer(log), auth.Config{PublicURL: "http://localhost:7777"}, log),
		Users:    usecase.NewUserUseCase(store.Users(), store.Carts()),
		Items:    usecase.NewItemUseCase(store.Items()),
		Carts:    usecase.NewCartUseCase(store.Carts(), store.Items()),
		Orders:   orderUC,
		Checkout: checkout.NewService(store.Carts(), store.Orders(), store.Checkouts(), payment.NewFakeGateway(), "usd", m, log),
		Metrics:  m,
		Log:      log,
	})
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:        "tienda-test",
		Schema:         schema,
		Identity:       auth.NewIdentityResolver(codec, store.Users(), m, log),
		OrderUC:        orderUC,
		Cookie:         config.CookieConfig{Secure: true},
		AllowedOrigins: []string{"http://localhost:7777"},
		Log:            log,
		Metrics:        m,
		Gatherer:       reg,
	})
	return &testServer{app: app, store: store, codec: codec}
}

type gqlResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func (s *testServer) post(t *testing.T, query string, vars map[string]interface{}, setup func(*http.Request)) (*http.Response, gqlResponse) {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if setup != nil {
		setup(req)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out gqlResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(c) }
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == apphttp.SessionCookie {
			return c
		}
	}
	return nil
}

const signupMutation = `mutation { signup(email: "ana@example.com", name: "Ana", password: "secreto") { id } }`

// ──────────────────────────────────────────────────────────────────────────────
// Sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestSignin_FijaCookieDeSesion(t *testing.T) {
	s := buildTestApp(t)
	_, out := s.post(t, signupMutation, nil, nil)
	require.Empty(t, out.Errors)
	userID := out.Data["signup"].(map[string]interface{})["id"].(string)

	resp, out := s.post(t, `mutation { signin(email: "ANA@example.com", password: "secreto") { id email } }`, nil, nil)
	require.Empty(t, out.Errors)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie, "signin debe fijar la cookie token")
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 365*24*60*60, cookie.MaxAge)

	verified, err := s.codec.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, userID, verified)
}

func TestSignin_PasswordIncorrecto_SinCookie(t *testing.T) {
	s := buildTestApp(t)
	s.post(t, signupMutation, nil, nil)

	resp, out := s.post(t, `mutation { signin(email: "ana@example.com", password: "otra") { id } }`, nil, nil)
	assert.Nil(t, sessionCookie(resp))
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "INVALID_CREDENTIAL", out.Errors[0].Extensions["code"])
}

func TestMe_AnonimoEsNull(t *testing.T) {
	s := buildTestApp(t)
	_, out := s.post(t, `{ me { id } }`, nil, nil)
	assert.Empty(t, out.Errors)
	assert.Contains(t, out.Data, "me")
	assert.Nil(t, out.Data["me"])
}

func TestMe_ConCookieYConBearer(t *testing.T) {
	s := buildTestApp(t)
	resp, _ := s.post(t, signupMutation, nil, nil)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)

	_, out := s.post(t, `{ me { email } }`, nil, withCookie(cookie))
	require.Empty(t, out.Errors)
	assert.Equal(t, "ana@example.com", out.Data["me"].(map[string]interface{})["email"])

	_, out = s.post(t, `{ me { email } }`, nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+cookie.Value)
	})
	require.Empty(t, out.Errors)
	assert.NotNil(t, out.Data["me"])
}

func TestMe_TokenInvalidoEsAnonimo(t *testing.T) {
	s := buildTestApp(t)
	_, out := s.post(t, `{ me { id } }`, nil, withCookie(&http.Cookie{Name: apphttp.SessionCookie, Value: "token.invalido.aqui"}))
	assert.Empty(t, out.Errors)
	assert.Nil(t, out.Data["me"])
}

func TestSignout_BorraCookie(t *testing.T) {
	s := buildTestApp(t)
	resp, out := s.post(t, `mutation { signout { message } }`, nil, nil)
	require.Empty(t, out.Errors)
	assert.Equal(t, "Goodbye!", out.Data["signout"].(map[string]interface{})["message"])

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()))
}

// ──────────────────────────────────────────────────────────────────────────────
// Transporte
// ──────────────────────────────────────────────────────────────────────────────

func TestGraphQLGet_QueryPermitidaMutacionNo(t *testing.T) {
	s := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape(`{ itemsConnection { aggregate { count } } }`), nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape(`mutation { signout { message } }`), nil)
	resp, err = s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestGraphQLPost_CuerpoInvalido(t *testing.T) {
	s := buildTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReceipt(t *testing.T) {
	s := buildTestApp(t)
	resp, _ := s.post(t, signupMutation, nil, nil)
	cookie := sessionCookie(resp)
	require.NoError(t, s.store.Items().Create(context.Background(), &entity.Item{ID: "gorra", Title: "Gorra", Price: 1500, UserID: "v", CreatedAt: time.Now()}))
	_, out := s.post(t, `mutation { addToCart(id: "gorra") { id } }`, nil, withCookie(cookie))
	require.Empty(t, out.Errors)
	_, out = s.post(t, `mutation { createOrder(token: "tok_visa") { id } }`, nil, withCookie(cookie))
	require.Empty(t, out.Errors)
	orderID := out.Data["createOrder"].(map[string]interface{})["id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID+"/receipt", nil)
	anon, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, anon.StatusCode)
	body, _ := io.ReadAll(anon.Body)
	assert.Contains(t, string(body), "UNAUTHENTICATED")

	req = httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID+"/receipt", nil)
	req.AddCookie(cookie)
	owner, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, owner.StatusCode)
	assert.Equal(t, "application/pdf", owner.Header.Get("Content-Type"))
	doc, _ := io.ReadAll(owner.Body)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	req = httptest.NewRequest(http.MethodGet, "/api/orders/no-existe/receipt", nil)
	req.AddCookie(cookie)
	missing, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHealthYMetrics(t *testing.T) {
	s := buildTestApp(t)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "tienda_http_requests_total")
}

func TestCORS_PermiteCredencialesDelFrontend(t *testing.T) {
	s := buildTestApp(t)
	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "http://localhost:7777")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:7777", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
