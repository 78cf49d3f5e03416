package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/api/customer/dashboard", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/customer/dashboard", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/api/customer/dashboard", fields["route"])
	assert.EqualValues(t, http.StatusNoContent, fields["status"])
	assert.Equal(t, resp.Header.Get(RequestIDHeader), fields["request_id"])
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requests.WithLabelValues("/api/customer/dashboard", http.MethodGet, "204")))
}
