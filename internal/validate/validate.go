// Package validate decodes and validates request payloads, producing a typed
// accepted-or-rejected result instead of structural has-this-field checks.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// FieldError describes one rejected field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Error is the rejected branch of a validation result. It lists every field
// that failed so clients can surface all problems at once.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s (%s)", f.Field, f.Rule)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Struct validates dst against its `validate` tags. Returns *Error on
// rejection, nil on acceptance.
func Struct(dst any) error {
	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			out := &Error{Fields: make([]FieldError, 0, len(verrs))}
			for _, fe := range verrs {
				out.Fields = append(out.Fields, FieldError{
					Field: strings.ToLower(fe.Field()),
					Rule:  fe.Tag(),
				})
			}
			return out
		}
		return err
	}
	return nil
}

// Request decodes a JSON body into dst and validates it. Any decode or
// validation failure is returned before the caller touches external services.
func Request(body io.Reader, dst any) error {
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request payload: %w", err)
	}
	return Struct(dst)
}
