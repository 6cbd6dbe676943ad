package main

import (
	"context"
	"io"
	"os"
	"time"

	"order-dashboard/internal/config"
	"order-dashboard/internal/telemetry"
	"order-dashboard/pkg/lambda"
	"order-dashboard/pkg/server"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func main() {
	adapter := newAdapter(context.Background(), os.Stderr, telemetry.NewRegistry())
	awslambda.Start(adapter.HandleRaw)
}

// newAdapter builds the adapter once per container. Configuration is loaded
// inside the initializer, so a bad setting still answers every request with a
// 500 diagnostic. All logging goes to diag.
func newAdapter(ctx context.Context, diag io.Writer, registry *prometheus.Registry) *lambda.Adapter {
	logger := logrus.New()
	logger.SetOutput(diag)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})

	load := func() (*config.Config, error) {
		cfg, err := config.GetOptimizedConfig()
		if err != nil {
			return nil, err
		}
		server.ConfigureLogger(logger, cfg.Log)
		return cfg, nil
	}

	return lambda.Bootstrap(
		server.InitFunc(ctx, load, server.Options{Logger: logger, Registry: registry}),
		lambda.WithLogger(logger),
		lambda.WithMetrics(lambda.NewMetrics(registry)),
	)
}
