package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonesrussell/coffee-shop/envconfig/internal/api"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/config"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/drift"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/environment"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/handler"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/logger"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	store := environment.NewStore(func(context.Context) (environment.Environment, error) {
		return cfg.Environment, nil
	})
	env, err := store.Load(context.Background())
	if err != nil {
		log.Error("Invalid environment", logger.Error(err))
		return 1
	}
	logEnvironment(log, m, env, cfg.Backend)

	srv := api.NewServer(cfg, api.Handlers{
		Health:      handler.NewHealthHandler(cfg.Service.Name, cfg.Service.Version, store),
		Environment: handler.NewEnvironmentHandler(store, m, log),
		Drift:       handler.NewDriftHandler(store, cfg.Backend),
		Metrics:     m,
	}, log)

	if err := srv.Run(context.Background()); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Environment service exited cleanly")
	return 0
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	path := config.GetConfigPath("config.yml")
	if _, err := os.Stat(path); os.IsNotExist(err) && os.Getenv("CONFIG_PATH") == "" {
		// No config file: run on the template plus environment variables.
		path = ""
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// logEnvironment reports the loaded record and publishes its drift findings.
// Both inputs are immutable, so the gauge is set once here.
func logEnvironment(log logger.Logger, m *metrics.Metrics, env environment.Environment, backend drift.Backend) {
	log.Info("Environment loaded",
		logger.Bool("production", env.Production),
		logger.String("api_server_url", env.APIServerURL),
		logger.String("auth0_url", env.Auth0.URL),
		logger.String("audience", env.Auth0.Audience),
	)

	if env.IsTemplate() {
		log.Warn("Environment still uses template placeholder values; replace them before deploying")
	}

	findings := drift.Check(env, backend)
	fields := make([]string, 0, len(findings))
	for _, f := range findings {
		fields = append(fields, f.Field)
		log.Warn("Front-end and API settings disagree",
			logger.String("field", f.Field),
			logger.String("frontend", f.Frontend),
			logger.String("backend", f.Backend),
			logger.String("reason", f.Message),
		)
	}
	m.SetDriftFindings(fields)
}
