package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"order-dashboard/internal/config"
	"order-dashboard/internal/database"
	"order-dashboard/internal/handlers"
	"order-dashboard/internal/middleware"
	"order-dashboard/internal/repositories/sqlstore"
	"order-dashboard/internal/services"
	"order-dashboard/internal/telemetry"
	"order-dashboard/internal/templates"
	"order-dashboard/pkg/lambda"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Options overrides what the container would otherwise build itself
type Options struct {
	Logger   *logrus.Logger
	Registry *prometheus.Registry
}

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Registry *prometheus.Registry
	Services *services.ServiceContainer
	Sessions *middleware.SessionManager

	db              *database.ConnectionManager
	router          *gin.Engine
	handler         http.Handler
	shutdownTracing func(context.Context) error
}

// NewLogger builds the process logger from the log settings
func NewLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	ConfigureLogger(logger, cfg)
	return logger
}

// ConfigureLogger applies the level and format settings, leaving the output alone
func ConfigureLogger(logger *logrus.Logger, cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// NewContainer connects the database and wires the store, services and router
func NewContainer(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(cfg.Log)
	}
	registry := opts.Registry
	if registry == nil {
		registry = telemetry.NewRegistry()
	}

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return nil, err
	}

	db := database.NewConnectionManager(cfg.Database, logger)
	if err := db.Connect(ctx); err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	store := sqlstore.NewStore(db.GetDB(), db.Driver(), logger)
	svc, err := services.NewServiceContainer(store, logger)
	if err != nil {
		_ = db.Close()
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	sessions := middleware.NewSessionManager(middleware.SessionConfig{
		Secret:     cfg.Session.Secret,
		TTL:        time.Duration(cfg.Session.ExpiryHours) * time.Hour,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
	})

	c := &Container{
		Config:          cfg,
		Logger:          logger,
		Registry:        registry,
		Services:        svc,
		Sessions:        sessions,
		db:              db,
		shutdownTracing: shutdownTracing,
	}
	c.router = c.newRouter()
	c.handler = telemetry.WrapHandler(cfg.Tracing.ServiceName, c.router)

	fields := logrus.Fields{
		"environment": cfg.Environment,
		"settings":    cfg.Settings,
		"driver":      db.Driver(),
		"mode":        config.GetDeploymentMode(),
	}
	if runtime := config.DetectServerless(); runtime.IsLambda {
		fields["function"] = runtime.FunctionName
		fields["region"] = runtime.Region
		fields["stage"] = runtime.Stage
	}
	logger.WithFields(fields).Info("Application initialized")
	return c, nil
}

func (c *Container) newRouter() *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HTMLRender = handlers.NewPongoRender(templates.FS, c.Config.IsProduction())

	rc := &handlers.RouterConfig{
		Services:       c.Services,
		Sessions:       c.Sessions,
		Logger:         c.Logger,
		Health:         c.db,
		Registry:       c.Registry,
		LoginPerMinute: c.Config.RateLimit.LoginPerMinute,
	}
	handlers.SetupMiddleware(router, rc)
	handlers.SetupRoutes(router, rc)
	return router
}

// Handler returns the traced HTTP handler serving the whole application
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Application adapts the handler for the serverless adapter
func (c *Container) Application() lambda.Application {
	return lambda.HandlerApplication(c.handler)
}

// Database exposes the connection manager for migrations and health checks
func (c *Container) Database() *database.ConnectionManager {
	return c.db
}

// Close cleans up all resources
func (c *Container) Close() error {
	var firstErr error
	if c.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.shutdownTracing(ctx); err != nil {
			firstErr = fmt.Errorf("failed to flush traces: %w", err)
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close database: %w", err)
		}
	}
	return firstErr
}

// ConfigLoader produces the configuration the application starts from
type ConfigLoader func() (*config.Config, error)

// StaticConfig returns a loader for an already loaded configuration
func StaticConfig(cfg *config.Config) ConfigLoader {
	return func() (*config.Config, error) {
		return cfg, nil
	}
}

// InitFunc returns the one-time initializer the serverless entry point bootstraps with.
// Configuration is loaded inside it so a bad setting degrades the adapter.
func InitFunc(ctx context.Context, load ConfigLoader, opts Options) lambda.InitFunc {
	return func() (lambda.Application, error) {
		if load == nil {
			return nil, fmt.Errorf("no configuration loader")
		}
		cfg, err := load()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		c, err := NewContainer(ctx, cfg, opts)
		if err != nil {
			return nil, err
		}
		return c.Application(), nil
	}
}
