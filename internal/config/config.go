// Package config loads the service configuration: the HTTP service settings,
// logging, the front-end environment record and the API server settings it
// is checked against.
package config

import (
	"errors"
	"net/url"

	"github.com/jonesrussell/coffee-shop/envconfig/internal/drift"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/environment"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/validation"
)

// Default configuration values.
const (
	defaultServiceName  = "coffee-shop-env"
	defaultServicePort  = 8050
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
)

// Config holds the application configuration.
type Config struct {
	Service     ServiceConfig           `yaml:"service"`
	Logging     LoggingConfig           `yaml:"logging"`
	Environment environment.Environment `yaml:"environment"`
	Backend     drift.Backend           `yaml:"backend"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"ENV_SERVICE_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"        yaml:"debug"`
	// CORSOrigins defaults to the origin of auth0.callbackURL.
	CORSOrigins []string `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load reads path (skipped when empty), applies defaults and then
// environment variable overrides.
func Load(path string) (*Config, error) {
	cfg, err := loadFile(path, setDefaults)
	if err != nil {
		return nil, err
	}
	// Runs after env overrides so it follows the final callback URL.
	setCORSDefaults(cfg)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setLoggingDefaults(&cfg.Logging)
	cfg.Environment = cfg.Environment.WithDefaults()
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

func setCORSDefaults(cfg *Config) {
	if len(cfg.Service.CORSOrigins) > 0 {
		return
	}
	if origin := originOf(cfg.Environment.Auth0.CallbackURL); origin != "" {
		cfg.Service.CORSOrigins = []string{origin}
	}
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Validate validates the service settings and the environment record,
// returning every failure joined.
func (c *Config) Validate() error {
	errs := []error{
		validation.Port("service.port", c.Service.Port),
		validation.LogLevel("logging.level", c.Logging.Level),
		validation.LogFormat("logging.format", c.Logging.Format),
		c.Environment.Validate(),
	}
	return errors.Join(errs...)
}
