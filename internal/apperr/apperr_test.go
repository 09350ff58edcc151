package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		status int
	}{
		{"bad request", BadRequest("bad"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("nope"), http.StatusUnauthorized},
		{"not found", NotFound("user not found"), http.StatusNotFound},
		{"conflict", Conflict("user already exists"), http.StatusConflict},
		{"unavailable", ServiceUnavailable("database unavailable"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.status {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.status)
			}
		})
	}
}

func TestError_String(t *testing.T) {
	got := NotFound("ad not found").Error()
	want := "app error (status=404): ad not found"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Errorf("nil Error() = %q", nilErr.Error())
	}
}

func TestError_As(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", Conflict("user has ads"))

	var appErr *Error
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As should find *Error")
	}
	if appErr.Status != http.StatusConflict || appErr.Message != "user has ads" {
		t.Errorf("unexpected error: %+v", appErr)
	}
}
