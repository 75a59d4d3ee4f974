// Package validation checks configuration values and reports every problem
// as a single INVALID_CONFIG error.
//
// # Struct Tag Validation
//
//	type Options struct {
//	    Workers int    `mapstructure:"workers" validate:"min=1"`
//	    Policy  string `mapstructure:"policy" validate:"oneof=skip abort"`
//	}
//	err := validation.Validate(opts)
//
// Field names in messages come from the mapstructure tag, so they match the
// keys users write in configuration files.
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(len(args) == 2, "args", "expected <input> <output>")
//	err := v.Validate()
package validation
