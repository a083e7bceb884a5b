// Package validation checks configuration values.
//
// Struct tag validation goes through go-playground/validator; field names in
// messages are the mapstructure keys, so they match what appears in config
// files:
//
//	type Config struct {
//	    Name    string `mapstructure:"name" validate:"required"`
//	    TempDir string `mapstructure:"temp_dir" validate:"omitempty,dir"`
//	}
//	err := validation.Struct(&cfg)
//
// Programmatic checks collect field errors the same way:
//
//	v := validation.New()
//	v.Required("interpreter", c.Interpreter).NonNegative("grace_period", c.GracePeriod)
//	err := v.Err()
//
// Both return an INVALID_INPUT AppError whose "fields" detail lists every
// failing field.
package validation
