package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"order-dashboard/internal/config"
	"order-dashboard/pkg/lambda"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Port:        "8000",
		Database: config.DatabaseConfig{
			Driver:          config.DriverSQLite,
			DSN:             filepath.Join(t.TempDir(), "dashboard.db"),
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
			AutoMigrate:     true,
		},
		Session: config.SessionConfig{
			Secret:      "test-secret-that-is-long-enough-to-sign",
			ExpiryHours: 1,
			CookieName:  "dashboard_session",
		},
		Log:       config.LogConfig{Level: "error", Format: "text"},
		Tracing:   config.TracingConfig{Exporter: "none", ServiceName: "order-dashboard"},
		RateLimit: config.RateLimitConfig{LoginPerMinute: 10},
	}
}

func quietOptions() Options {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return Options{Logger: logger}
}

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	c, err := NewContainer(context.Background(), testConfig(t), quietOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewContainer(t *testing.T) {
	c := newTestContainer(t)

	require.NotNil(t, c.Services)
	assert.NoError(t, c.Services.Validate())
	assert.NotNil(t, c.Sessions)
	assert.NotNil(t, c.Registry)
	assert.NotNil(t, c.Handler())
}

func TestNewContainer_BadDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	_, err := NewContainer(context.Background(), cfg, quietOptions())
	assert.Error(t, err)
}

func TestContainer_ServesOperationalEndpoints(t *testing.T) {
	c := newTestContainer(t)

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)

	w = httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dashboard_http_requests_total")

	w = httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2F", w.Header().Get("Location"))
}

func TestContainer_SignInThroughAdapter(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, err := c.Services.Auth.CreateUser(ctx, "staff", "staff@example.com", "correct horse")
	require.NoError(t, err)

	adapter := lambda.New(c.Application())

	page := adapter.Handle(ctx, json.RawMessage(`{"httpMethod":"GET","path":"/login/","queryStringParameters":{"next":"/members/"}}`))
	require.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, page.Body, `name="next" value="/members/"`)
	contentType, _ := page.Header("Content-Type")
	assert.Equal(t, "text/html; charset=utf-8", contentType)

	login := adapter.Handle(ctx, map[string]any{
		"httpMethod": "POST",
		"path":       "/login/",
		"headers":    map[string]any{"Content-Type": "application/x-www-form-urlencoded"},
		"body":       "username=STAFF%40example.com&password=correct+horse&next=%2Fmembers%2F",
	})
	require.Equal(t, http.StatusFound, login.StatusCode)
	location, _ := login.Header("Location")
	assert.Equal(t, "/members/", location)
	require.Len(t, login.Cookies, 1)
	assert.True(t, strings.HasPrefix(login.Cookies[0], "dashboard_session="))

	cookie := strings.SplitN(login.Cookies[0], ";", 2)[0]
	members := adapter.Handle(ctx, map[string]any{
		"httpMethod": "GET",
		"path":       "/members/",
		"headers":    map[string]any{"Cookie": cookie},
	})
	assert.Equal(t, http.StatusOK, members.StatusCode)
	assert.Contains(t, members.Body, "staff")
}

func TestInitFunc_BootstrapsOnce(t *testing.T) {
	cfg := testConfig(t)
	adapter := lambda.Bootstrap(InitFunc(context.Background(), StaticConfig(cfg), quietOptions()))
	require.False(t, adapter.Degraded())

	reply := adapter.Handle(context.Background(), json.RawMessage(`{"httpMethod":"GET","path":"/health"}`))
	assert.Equal(t, http.StatusOK, reply.StatusCode)

	cfg = testConfig(t)
	cfg.Database.Driver = "oracle"
	degraded := lambda.Bootstrap(InitFunc(context.Background(), StaticConfig(cfg), quietOptions()))
	assert.True(t, degraded.Degraded())
	assert.Equal(t, http.StatusInternalServerError, degraded.Handle(context.Background(), json.RawMessage(`{"path":"/"}`)).StatusCode)
}

func TestInitFunc_ConfigErrorDegrades(t *testing.T) {
	degraded := lambda.Bootstrap(InitFunc(context.Background(), func() (*config.Config, error) {
		return nil, errors.New(`invalid settings profile "../bad"`)
	}, quietOptions()))
	require.True(t, degraded.Degraded())

	reply := degraded.Handle(context.Background(), json.RawMessage(`{"path":"/"}`))
	assert.Equal(t, http.StatusInternalServerError, reply.StatusCode)
	assert.Contains(t, reply.Body, "failed to load configuration")

	assert.True(t, lambda.Bootstrap(InitFunc(context.Background(), nil, quietOptions())).Degraded())
}

func TestNewContainer_LogsServerlessRuntime(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "order-dashboard-web")
	t.Setenv("AWS_REGION", "ap-northeast-1")
	t.Setenv("STAGE", "prod")

	logger, hook := test.NewNullLogger()
	c, err := NewContainer(context.Background(), testConfig(t), Options{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	var entry *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "Application initialized" {
			entry = e
		}
	}
	require.NotNil(t, entry)
	assert.Equal(t, "serverless", entry.Data["mode"])
	assert.Equal(t, "order-dashboard-web", entry.Data["function"])
	assert.Equal(t, "ap-northeast-1", entry.Data["region"])
	assert.Equal(t, "prod", entry.Data["stage"])
}
