package bootstrap

import (
	"github.com/kbukum/shellkit/config"
)

// Config is the interface constraint for program configuration types.
// Any struct that embeds config.Config satisfies it via promoted methods.
//
//	type MyConfig struct {
//	    config.Config `yaml:",inline" mapstructure:",squash"`
//	    Workdir string `yaml:"workdir" mapstructure:"workdir"`
//	}
//
//	app, err := bootstrap.NewApp[*MyConfig](&cfg)
type Config interface {
	GetConfig() *config.Config
	ApplyDefaults()
	Validate() error
}
