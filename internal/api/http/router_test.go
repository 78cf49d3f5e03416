package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/art-gallery-service/internal/api/http/handlers"
	"github.com/spec-kit/art-gallery-service/internal/auth"
	"github.com/spec-kit/art-gallery-service/internal/config"
	"github.com/spec-kit/art-gallery-service/internal/domain"
	"github.com/spec-kit/art-gallery-service/internal/observability"
	"github.com/spec-kit/art-gallery-service/internal/payments"
	"github.com/spec-kit/art-gallery-service/internal/repository"
	"github.com/spec-kit/art-gallery-service/internal/service"
)

const (
	routerJWTSecret     = "0123456789abcdef0123456789abcdef"
	routerPaymentSecret = "rzp_test_secret"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (m *memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	stored := *user
	m.users[user.Email] = &stored
	return nil
}

func (m *memoryUsers) GetByID(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	key, err := auth.NewSigningKey(routerJWTSecret)
	require.NoError(t, err)
	tokens := auth.NewTokenManager(key, time.Hour)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   &memoryUsers{users: map[string]*domain.User{}},
		Tokens:     tokens,
		BcryptCost: bcrypt.MinCost,
		Logger:     logger,
	})
	paymentService := service.NewPaymentService(config.PaymentsConfig{
		KeySecret: routerPaymentSecret,
		Currency:  "INR",
	}, service.PaymentDependencies{Recorder: metrics, Logger: logger})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:        handlers.NewHealthHandler("art-gallery-service", "test", nil, nil, paymentService.Ready()),
		Auth:          handlers.NewAuthHandler(authService),
		Dashboards:    handlers.NewDashboardHandler(),
		Payments:      handlers.NewPaymentsHandler(paymentService),
		Authenticator: auth.NewAuthenticator(tokens, logger, metrics, auth.PaymentCallbackPrefix),
		Metrics:       metrics,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, bearer string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func signup(t *testing.T, app *fiber.App, email, role string) string {
	t.Helper()
	status, body := call(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"name":     "Test User",
		"email":    email,
		"password": "secret1",
		"role":     role,
	})
	require.Equal(t, nethttp.StatusCreated, status, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRoutes_CustomerCannotOpenArtistDashboard(t *testing.T) {
	app := newTestApp(t)
	token := signup(t, app, "alice@example.com", "")

	status, body := call(t, app, fiber.MethodGet, "/api/artist/dashboard", token, nil)
	assert.Equal(t, nethttp.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, body = call(t, app, fiber.MethodGet, "/api/customer/dashboard", token, nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "Customer dashboard data", body["message"])
	assert.Equal(t, "alice@example.com", body["viewer"])

	status, _ = call(t, app, fiber.MethodGet, "/api/admin/dashboard", token, nil)
	assert.Equal(t, nethttp.StatusForbidden, status)
}

func TestRoutes_ArtistDashboard(t *testing.T) {
	app := newTestApp(t)
	token := signup(t, app, "eve@example.com", "ARTIST")

	status, body := call(t, app, fiber.MethodGet, "/api/artist/dashboard", token, nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "Artist dashboard data", body["message"])
	assert.EqualValues(t, 0, body["uploadedArtworksCount"])
}

func TestRoutes_UnauthenticatedIs401(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/auth/me", "/api/artist/dashboard", "/api/customer/dashboard", "/api/admin/dashboard"} {
		status, body := call(t, app, fiber.MethodGet, path, "", nil)
		assert.Equal(t, nethttp.StatusUnauthorized, status, path)
		assert.Equal(t, "UNAUTHORIZED", errorCode(body), path)

		status, _ = call(t, app, fiber.MethodGet, path, "not.a.token", nil)
		assert.Equal(t, nethttp.StatusUnauthorized, status, path)
	}
}

func TestRoutes_SignupLoginMe(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "Bob@Example.com", "role_admin")

	status, body := call(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"name": "Bob", "email": "bob@example.com", "password": "secret1",
	})
	assert.Equal(t, nethttp.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))

	status, body = call(t, app, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "bob@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, body = call(t, app, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "bob@example.com", "password": "secret1",
	})
	require.Equal(t, nethttp.StatusOK, status)
	token := body["token"].(string)
	assert.Equal(t, "ADMIN", body["user"].(map[string]any)["role"])

	status, body = call(t, app, fiber.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "bob@example.com", body["subject"])
	assert.Equal(t, "ROLE_ADMIN", body["authority"])
	assert.NotContains(t, body, "token")

	status, _ = call(t, app, fiber.MethodGet, "/api/admin/dashboard", token, nil)
	assert.Equal(t, nethttp.StatusOK, status)
}

func TestRoutes_SignupValidation(t *testing.T) {
	app := newTestApp(t)

	status, body := call(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"name": "X", "email": "not-an-email", "password": "secret1",
	})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = call(t, app, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"name": "X", "email": "x@example.com", "password": "secret1", "role": "curator",
	})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "invalid role specified", body["error"].(map[string]any)["message"])
}

func TestRoutes_PaymentVerification(t *testing.T) {
	app := newTestApp(t)

	status, body := call(t, app, fiber.MethodPost, "/api/payments/verify", "", fiber.Map{
		"razorpay_order_id":  "order_1",
		"razorpay_signature": "abc",
	})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, false, body["verified"])
	assert.Equal(t, "Missing required fields", body["error"])
	assert.Equal(t, payments.FieldPaymentID, body["field"])

	status, body = call(t, app, fiber.MethodPost, "/api/payments/verify", "", fiber.Map{
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  payments.Sign("order_1", "pay_2", routerPaymentSecret),
	})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, false, body["verified"])
	assert.Equal(t, "Signature verification failed", body["error"])

	status, body = call(t, app, fiber.MethodPost, "/api/payments/verify", "garbage.token.here", fiber.Map{
		"orderId":   "order_1",
		"paymentId": "pay_1",
		"signature": payments.Sign("order_1", "pay_1", routerPaymentSecret),
	})
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, true, body["verified"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Payment verified successfully", body["message"])
}

func TestRoutes_CreateOrderWithoutGateway(t *testing.T) {
	app := newTestApp(t)

	status, body := call(t, app, fiber.MethodPost, "/api/payments/create-order", "", fiber.Map{"amount": 250})
	assert.Equal(t, nethttp.StatusServiceUnavailable, status)
	assert.Equal(t, "SERVICE_UNAVAILABLE", errorCode(body))

	status, body = call(t, app, fiber.MethodPost, "/api/payments/create-order", "", fiber.Map{"amount": 0})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestRoutes_HealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	status, body := call(t, app, fiber.MethodGet, "/health/live", "", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = call(t, app, fiber.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "gallery_http_requests_total")
}

func TestRoutes_RequestIDEchoed(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/health/live", nil)
	req.Header.Set(observability.RequestIDHeader, "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(observability.RequestIDHeader))
}
