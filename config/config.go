package config

import (
	"os"

	"github.com/kbukum/shellkit/logger"
	"github.com/kbukum/shellkit/observability"
	"github.com/kbukum/shellkit/process"
	"github.com/kbukum/shellkit/validation"
)

// Config is the top-level configuration of a shellkit program.
//
// Programs with settings of their own embed it:
//
//	type MyConfig struct {
//	    config.Config `yaml:",inline" mapstructure:",squash"`
//	    Workdir string `yaml:"workdir" mapstructure:"workdir"`
//	}
type Config struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
	// TempDir is the parent of temporary files and directories. Defaults to os.TempDir().
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir" validate:"omitempty,dir"`

	Logging   logger.Config        `yaml:"logging" mapstructure:"logging"`
	Process   process.Config       `yaml:"process" mapstructure:"process"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// GetConfig returns the base Config. When Config is embedded the method is
// promoted, so the embedding struct can be passed to bootstrap.Setup.
func (c *Config) GetConfig() *Config {
	return c
}

// ApplyDefaults fills unset fields, including every sub-configuration.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
	c.Process.ApplyDefaults()
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	c.Telemetry.ApplyDefaults()
}

// Validate checks struct tags first, then each sub-configuration.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	return validation.New().
		Nested("logging", c.Logging.Validate).
		Nested("process", c.Process.Validate).
		Nested("telemetry", c.Telemetry.Validate).
		Err()
}
