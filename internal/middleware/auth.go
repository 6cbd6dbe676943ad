package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"order-dashboard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Context keys set for signed-in requests
const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
)

// LoginPath is where anonymous page requests are sent
const LoginPath = "/login/"

// Claims represents the session token claims
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
	Issuer     string
}

// SessionManager issues and verifies signed session cookies
type SessionManager struct {
	config SessionConfig
}

// NewSessionManager creates a new session manager
func NewSessionManager(config SessionConfig) *SessionManager {
	if config.TTL == 0 {
		config.TTL = 12 * time.Hour
	}
	if config.CookieName == "" {
		config.CookieName = "dashboard_session"
	}
	if config.Issuer == "" {
		config.Issuer = "order-dashboard"
	}
	return &SessionManager{config: config}
}

// GenerateToken generates a session token for a user
func (m *SessionManager) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.config.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a session token and returns its claims
func (m *SessionManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.config.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// SignIn sets the session cookie for user
func (m *SessionManager) SignIn(c *gin.Context, user *models.User) error {
	token, err := m.GenerateToken(user)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.config.CookieName, token, int(m.config.TTL.Seconds()), "/", "", m.config.Secure, true)
	return nil
}

// SignOut expires the session cookie
func (m *SessionManager) SignOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.config.CookieName, "", -1, "/", "", m.config.Secure, true)
}

// Session reads the session cookie and stores the user in the context when it is valid
func Session(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.config.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := m.ValidateToken(token)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error": err.Error(),
				"path":  c.Request.URL.Path,
			}).Debug("Ignoring invalid session cookie")
			c.Next()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

// RequireLogin redirects anonymous page requests to the login page
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}

		c.Redirect(http.StatusFound, LoginRedirect(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// RequireAPISession rejects anonymous API requests
func RequireAPISession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, models.APIResponse{
			Error:     &models.APIError{Code: "unauthorized", Message: "Authentication required"},
			Timestamp: time.Now().UTC(),
		})
	}
}

// LoginRedirect builds the login URL that returns to next afterwards
func LoginRedirect(next string) string {
	if next == "" {
		next = "/"
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a local path, else "/"
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	return next
}

// CurrentUser extracts the signed-in user from the context
func CurrentUser(c *gin.Context) (int64, string, bool) {
	id, ok := c.Get(UserIDKey)
	if !ok {
		return 0, "", false
	}
	userID, ok := id.(int64)
	if !ok {
		return 0, "", false
	}
	return userID, c.GetString(UsernameKey), true
}
