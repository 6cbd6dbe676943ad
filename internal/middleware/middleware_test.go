package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"order-dashboard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testSessions() *SessionManager {
	return NewSessionManager(SessionConfig{Secret: "test-secret", TTL: time.Hour, CookieName: "sess"})
}

func TestSessionManager_Tokens(t *testing.T) {
	m := testSessions()
	token, err := m.GenerateToken(&models.User{ID: 7, Username: "admin"})
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin", claims.Username)

	other := NewSessionManager(SessionConfig{Secret: "other-secret"})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	expired := NewSessionManager(SessionConfig{Secret: "test-secret", TTL: -time.Minute})
	old, err := expired.GenerateToken(&models.User{ID: 7})
	require.NoError(t, err)
	_, err = m.ValidateToken(old)
	assert.Error(t, err)

	_, err = m.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func sessionRouter(m *SessionManager) *gin.Engine {
	r := gin.New()
	r.Use(Session(m))
	r.POST("/login/", func(c *gin.Context) {
		if err := m.SignIn(c, &models.User{ID: 3, Username: "staff"}); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	pages := r.Group("/", RequireLogin())
	pages.GET("/orders/", func(c *gin.Context) {
		id, name, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "name": name})
	})
	r.GET("/api/v1/members", RequireAPISession(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRequireLogin_RedirectsAnonymous(t *testing.T) {
	r := sessionRouter(testSessions())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/?status=x", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Forders%2F%3Fstatus%3Dx", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/members", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSession_CookieRoundTrip(t *testing.T) {
	m := testSessions()
	r := sessionRouter(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login/", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sess", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/orders/", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":3,"name":"staff"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/orders/", nil)
	req.AddCookie(&http.Cookie{Name: "sess", Value: "forged"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/orders/", SafeNext("/orders/"))
	assert.Equal(t, "/", SafeNext("https://evil.example"))
	assert.Equal(t, "/", SafeNext("//evil.example"))
	assert.Equal(t, "/", SafeNext(""))
}

func TestLoginRateLimiter(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(LoginRateLimiter(2, logger))
	r.Any("/login/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "Login rate limit exceeded", hook.LastEntry().Message)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDAndLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(RequestID(), StructuredLogger(logger), Recovery(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "abc", hook.LastEntry().Data["request_id"])
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)

	hook.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var sawPanic bool
	for _, e := range hook.AllEntries() {
		if e.Message == "Recovered from panic" {
			sawPanic = true
			assert.Equal(t, "boom", e.Data["panic"])
		}
	}
	assert.True(t, sawPanic)
}

func TestLoginLimiter_ForgetsIdleClients(t *testing.T) {
	l := newLoginLimiter(1)
	start := time.Now()

	assert.True(t, l.allow("10.0.0.1", start))
	assert.False(t, l.allow("10.0.0.1", start.Add(time.Second)))
	assert.True(t, l.allow("10.0.0.2", start.Add(2*time.Second)))
	assert.Equal(t, 2, l.size())

	later := start.Add(2*time.Second + limiterIdleTTL)
	assert.True(t, l.allow("10.0.0.3", later))
	assert.Equal(t, 1, l.size())

	assert.True(t, l.allow("10.0.0.1", later.Add(time.Second)))
	assert.Equal(t, 2, l.size())
}
