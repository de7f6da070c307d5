// Package validation provides input validation for speechkit task parameters
// and configuration.
//
// Struct tag validation (go-playground/validator) is used for task parameter
// structs; every failure becomes an INVALID_INPUT AppError whose details list
// the offending fields by their parameter key.
//
//	type AudioToTextParams struct {
//	    Audio  string `mapstructure:"audio" validate:"required"`
//	    APIKey string `mapstructure:"api_key" validate:"required"`
//	}
//	err := validation.Validate(params)
//
// The programmatic Validator collects errors for config-level checks:
//
//	v := validation.New()
//	v.Required("base_url", cfg.BaseURL).URL("base_url", cfg.BaseURL)
//	err := v.Validate()
package validation
