package services

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{Kind(99), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		e := &Error{Kind: tt.kind, Message: "x"}
		if got := e.HTTPStatus(); got != tt.want {
			t.Errorf("HTTPStatus(kind %d) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	e := NewValidationError("date", "date must be in YYYY-MM-DD format")
	if e.Error() != "date must be in YYYY-MM-DD format" {
		t.Errorf("Error() = %q", e.Error())
	}
	if e.Field != "date" {
		t.Errorf("Field = %q, want date", e.Field)
	}
}

func TestErrorWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	e := &Error{Kind: KindNotFound, Message: "Booking not found", Err: cause}
	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
	if e.Error() != "Booking not found: boom" {
		t.Errorf("Error() = %q", e.Error())
	}
}
