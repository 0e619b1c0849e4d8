// Package validation checks configuration structs and request descriptors.
//
// Struct tag validation runs go-playground/validator and reports fields by
// their mapstructure key:
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
//	}
//	err := validation.Validate(cfg)
//
// Validator collects errors for checks made in code:
//
//	err := validation.New().
//	    Required("method", req.Method).
//	    Min("files", len(body.Files), 1).
//	    Err()
//
// Both report an *errors.AppError with code INVALID_INPUT and the failing
// fields under Details["fields"].
package validation
