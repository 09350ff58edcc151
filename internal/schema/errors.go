package schema

import (
	"fmt"
	"strings"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Type  string   `json:"type"`
	Loc   []string `json:"loc"`
	Msg   string   `json:"msg"`
	Input any      `json:"input,omitempty"`
}

// Errors is the aggregated result of a failed decode. It is rendered as-is in
// the response body.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		if len(fe.Loc) == 0 {
			parts = append(parts, fe.Msg)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(fe.Loc, "."), fe.Msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Error type codes.
const (
	TypeJSONInvalid      = "json_invalid"
	TypeNotObject        = "model_attributes_type"
	TypeMissing          = "missing"
	TypeString           = "string_type"
	TypeInt              = "int_type"
	TypeIntParsing       = "int_parsing"
	TypeIntFromFloat     = "int_from_float"
	TypeStringTooShort   = "string_too_short"
	TypeStringTooLong    = "string_too_long"
	TypeGreaterThanEqual = "greater_than_equal"
	TypeLessThanEqual    = "less_than_equal"
	TypeValue            = "value_error"
	TypeForeignKey       = "foreign_key"
)

func fieldError(typ, field, msg string, input any) FieldError {
	loc := []string{}
	if field != "" {
		loc = []string{field}
	}
	return FieldError{Type: typ, Loc: loc, Msg: msg, Input: input}
}
