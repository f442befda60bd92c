package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"payregister/internal/auth"
	"payregister/internal/domain/payroll"
	"payregister/internal/platform/config"
	"payregister/internal/platform/metrics"
)

func newTestApp(t *testing.T, secret string) *App {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.JWTSecret = secret
	logger, _ := test.NewNullLogger()
	collector := metrics.New()
	return New(cfg, logger, payroll.NewService(nil, nil, logger, collector), collector)
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, "")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, "")
	app.Router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "payregister_http_requests_total")
}

func TestRegisterRequiresTokenWhenSecretSet(t *testing.T) {
	app := newTestApp(t, "secret")

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/register", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.GenerateToken("secret", auth.Claims{UserID: "ops", Scopes: []string{auth.ScopeRegisterRun}}, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	// Authorized, but not a multipart form.
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
