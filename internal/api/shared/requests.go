package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// DecodeJSON decodes the request body into the given destination struct.
// It rejects empty bodies and malformed JSON with errors suitable for a
// 400 response.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request format: %w", err)
	}

	return nil
}

// ValidateRequest validates the given struct using the provided validator
// and returns a human-readable error describing the first failing field.
func ValidateRequest(v *validator.Validate, dst interface{}) error {
	if err := v.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fieldErr := validationErrors[0]
			return fmt.Errorf("invalid field %q: failed on the %q rule", fieldErr.Field(), fieldErr.Tag())
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// DecodeAndValidate combines DecodeJSON and ValidateRequest for the common
// handler pattern of decoding a body and immediately validating it.
func DecodeAndValidate(r *http.Request, v *validator.Validate, dst interface{}) error {
	if err := DecodeJSON(r, dst); err != nil {
		return err
	}
	return ValidateRequest(v, dst)
}
