// Package validation validates xhrkit input structs with struct tags using
// go-playground/validator, reporting failures as *errors.AppError values
// whose details list every offending field.
//
//	type Request struct {
//	    Method string `json:"method" validate:"required,http_token"`
//	}
//	err := validation.Validate(req)
package validation
