package handlers

import (
	"strconv"

	"order-dashboard/internal/middleware"
	"order-dashboard/internal/repositories"
	"order-dashboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler serves the dashboard pages and the JSON API
type Handler struct {
	services *services.ServiceContainer
	sessions *middleware.SessionManager
	logger   *logrus.Logger
}

// NewHandler creates a new handler
func NewHandler(svc *services.ServiceContainer, sessions *middleware.SessionManager, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{services: svc, sessions: sessions, logger: logger}
}

// pageData adds the signed-in user to a template context
func pageData(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["user"] = c.GetString(middleware.UsernameKey)
	return data
}

// pathID parses the :id route parameter
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, repositories.NewRepositoryError("parse", "path", 0, repositories.ErrInvalidID)
	}
	return id, nil
}

// checkbox reads an HTML checkbox, which browsers omit when unchecked
func checkbox(c *gin.Context, name string) *bool {
	checked := c.PostForm(name) != ""
	return &checked
}
