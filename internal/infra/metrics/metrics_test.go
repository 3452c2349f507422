package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"agrimarket/config"
	domainerrors "agrimarket/internal/domain/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_BusinessCounters(t *testing.T) {
	c := New()

	c.OrderLinesPlaced(3)
	c.OrderActioned("accepted")
	c.OrderActioned("accepted")
	c.OTPIssued("login")
	c.EventPublishFailed("order.placed")

	assert.Equal(t, float64(3), testutil.ToFloat64(c.orderLines))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.orderActions.WithLabelValues("accepted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.otpIssued.WithLabelValues("login")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.publishFailure.WithLabelValues("order.placed")))
}

func TestCollector_MiddlewareAndHandler(t *testing.T) {
	c := New()

	e := echo.New()
	e.Use(c.Middleware())
	e.GET("/api/products/:id", func(ctx echo.Context) error {
		return ctx.NoContent(http.StatusNoContent)
	})
	e.GET("/metrics", echo.WrapHandler(c.Handler()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/abc", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.httpRequests.WithLabelValues(http.MethodGet, "/api/products/:id", "204")))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "agrimarket_http_requests_total")
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusOf(echo.ErrNotFound))
	assert.Equal(t, http.StatusConflict, statusOf(domainerrors.ErrOrderNotActionable))
	assert.Equal(t, http.StatusInternalServerError, statusOf(io.EOF))
}

func TestCollector_RegisterDBStats(t *testing.T) {
	c := New()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, c.RegisterDBStats(db, "postgres"))
	assert.Error(t, c.RegisterDBStats(db, "postgres"), "duplicate registration")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `go_sql_open_connections{db_name="postgres"}`)
}

func TestCollector_Mount(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.MetricsConfig
		path    string
		mounted bool
	}{
		{name: "not configured", path: "/metrics"},
		{name: "disabled", cfg: &config.MetricsConfig{Path: "/metrics"}, path: "/metrics"},
		{name: "default path", cfg: &config.MetricsConfig{Enabled: true}, path: "/metrics", mounted: true},
		{name: "custom path", cfg: &config.MetricsConfig{Enabled: true, Path: "/internal/metrics"}, path: "/internal/metrics", mounted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			assert.Equal(t, tt.mounted, New().Mount(e, tt.cfg))

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if tt.mounted {
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				assert.Equal(t, http.StatusNotFound, rec.Code)
			}
		})
	}
}
