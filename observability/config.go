package observability

import (
	"time"

	"github.com/kbukum/shellkit/validation"
	"github.com/kbukum/shellkit/version"
)

// Config configures tracing and metrics export.
type Config struct {
	// Enabled turns on OTLP export. When false the global no-op providers stay in place.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// ServiceName identifies the script or tool in exported telemetry.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is reported as service.version.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	// Insecure allows plain HTTP (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	// MetricInterval is the metric export interval.
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// DefaultConfig returns sensible defaults for local development.
func DefaultConfig(serviceName string) Config {
	cfg := Config{ServiceName: serviceName}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "shellkit"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = version.Get().Short()
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
		c.Insecure = true
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.New().
		Between("telemetry.sample_rate", c.SampleRate, 0, 1).
		Check(!c.Enabled || c.Endpoint != "", "telemetry.endpoint", "is required when telemetry is enabled").
		NonNegative("telemetry.metric_interval", c.MetricInterval).
		Err()
}
