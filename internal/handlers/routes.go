package handlers

import (
	"context"
	"net/http"
	"strings"

	"order-dashboard/internal/database"
	"order-dashboard/internal/middleware"
	"order-dashboard/internal/services"
	"order-dashboard/internal/telemetry"

	_ "order-dashboard/internal/docs"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// HealthChecker reports database health
type HealthChecker interface {
	GetHealthStatus(ctx context.Context) *database.HealthStatus
}

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Services *services.ServiceContainer
	Sessions *middleware.SessionManager
	Logger   *logrus.Logger
	Health   HealthChecker

	// Registry receives the HTTP metrics and backs /metrics; nil disables both
	Registry *prometheus.Registry

	LoginPerMinute int
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, config *RouterConfig) {
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(config.Logger))
	router.Use(middleware.Recovery(config.Logger))
	if config.Registry != nil {
		router.Use(telemetry.NewHTTPMetrics(config.Registry).Middleware())
	}
	router.Use(middleware.Session(config.Sessions))
}

// SetupRoutes configures the pages, the JSON API and the operational endpoints
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	h := NewHandler(config.Services, config.Sessions, config.Logger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		if config.Health == nil {
			c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "order-dashboard"})
			return
		}
		status := config.Health.GetHealthStatus(c.Request.Context())
		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": healthWord(status.Healthy), "service": "order-dashboard", "database": status})
	})

	if config.Registry != nil {
		router.GET("/metrics", gin.WrapH(telemetry.MetricsHandler(config.Registry)))
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			respondError(c, errNoRoute)
			return
		}
		renderError(c, errNoRoute)
	})

	// Pages
	router.GET(middleware.LoginPath, h.LoginPage)
	router.POST(middleware.LoginPath, middleware.LoginRateLimiter(config.LoginPerMinute, config.Logger), h.Login)
	router.POST("/logout/", h.Logout)

	pages := router.Group("")
	pages.Use(middleware.RequireLogin(), middleware.SecurityHeaders())
	{
		pages.GET("/", h.Home)

		pages.GET("/orders/", h.OrderList)
		pages.GET("/orders/new/", h.OrderNew)
		pages.POST("/orders/new/", h.OrderCreate)

		pages.GET("/members/", h.MemberList)
		pages.GET("/members/new/", h.MemberNew)
		pages.POST("/members/new/", h.MemberCreate)
		pages.GET("/members/:id/edit/", h.MemberEdit)
		pages.POST("/members/:id/edit/", h.MemberUpdate)

		pages.GET("/shipping/", h.ShippingList)
		pages.GET("/shipping/new/", h.ShippingNew)
		pages.POST("/shipping/new/", h.ShippingCreate)
		pages.GET("/shipping/:id/edit/", h.ShippingEdit)
		pages.POST("/shipping/:id/edit/", h.ShippingUpdate)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.LoginRateLimiter(config.LoginPerMinute, config.Logger), h.APILogin)
			auth.POST("/logout", h.APILogout)
			auth.GET("/me", middleware.RequireAPISession(), h.Me)
		}

		api := v1.Group("")
		api.Use(middleware.RequireAPISession())
		{
			api.GET("/dashboard", h.APIDashboard)

			members := api.Group("/members")
			{
				members.GET("", h.APIListMembers)
				members.POST("", h.APICreateMember)
				members.GET("/:id", h.APIGetMember)
				members.PUT("/:id", h.APIUpdateMember)
			}

			addresses := api.Group("/shipping-addresses")
			{
				addresses.GET("", h.APIListAddresses)
				addresses.POST("", h.APICreateAddress)
				addresses.GET("/:id", h.APIGetAddress)
				addresses.PUT("/:id", h.APIUpdateAddress)
			}

			orders := api.Group("/orders")
			{
				orders.GET("", h.APIListOrders)
				orders.POST("", h.APICreateOrder)
				orders.GET("/choices", h.APIOrderChoices)
				orders.GET("/:id", h.APIGetOrder)
				orders.PATCH("/:id/status", h.APIUpdateOrderStatus)
			}
		}
	}
}

func healthWord(ok bool) string {
	if ok {
		return "healthy"
	}
	return "unhealthy"
}
