package config

import (
	"fmt"
	"os"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// DetectServerless inspects the Lambda runtime environment
func DetectServerless() ServerlessConfig {
	return ServerlessConfig{
		IsLambda:     isRunningInLambda(),
		FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		Region:       os.Getenv("AWS_REGION"),
		Stage:        GetEnv("STAGE", "dev"),
	}
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if isRunningInLambda() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless modifies configuration for serverless deployment
func AdaptConfigForServerless(config *Config) *Config {
	if !isRunningInLambda() {
		return config
	}

	// The deployment package is read-only; only /tmp is writable
	if config.Database.Driver == DriverSQLite && config.Database.DSN == "./data/dashboard.db" {
		if os.Getenv("RDS_ENDPOINT") != "" {
			config.Database.Driver = DriverPostgres
			config.Database.DSN = buildRDSConnectionString()
		} else {
			config.Database.DSN = "/tmp/dashboard.db"
		}
	}

	config.Database.MaxOpenConns = 1
	config.Database.MaxIdleConns = 1
	config.Log.Format = "json"
	config.Session.Secure = true

	return config
}

// buildRDSConnectionString constructs RDS connection string from environment variables
func buildRDSConnectionString() string {
	host := os.Getenv("RDS_ENDPOINT")
	port := GetEnv("RDS_PORT", "5432")
	dbname := GetEnv("RDS_DB_NAME", "dashboard")
	user := os.Getenv("RDS_USERNAME")
	password := os.Getenv("RDS_PASSWORD")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=require",
		host, port, user, password, dbname)
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	config = AdaptConfigForServerless(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}
