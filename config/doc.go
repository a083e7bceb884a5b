// Package config loads the configuration of a shellkit program.
//
// It uses Viper to read a YAML file, then applies a .env file and the
// process environment on top:
//
//	var cfg config.Config
//	err := config.LoadConfig("my-tool", &cfg)
//
// Without explicit paths the loader looks for ./my-tool.yml,
// ./config/config.yml, ./config.yml and the user config directory.
// Environment variables use the upper-cased program name as prefix, with
// underscores for nesting: MY_TOOL_LOGGING_LEVEL=debug sets logging.level.
package config
