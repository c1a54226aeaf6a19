package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Forbidden("x"), http.StatusForbidden},
		{InvalidState("x"), http.StatusBadRequest},
		{InvalidTransition("x"), http.StatusBadRequest},
		{BadRequest("x"), http.StatusBadRequest},
		{Conflict("x"), http.StatusConflict},
		{Internal("x"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tc.err.Kind, got, tc.want)
		}
	}
}

func TestFrom(t *testing.T) {
	original := Forbidden("access denied")
	if got := From(original); got != original {
		t.Error("From must return the original classified error")
	}

	wrapped := fmt.Errorf("handler: %w", NotFound("missing"))
	if got := From(wrapped); got.Kind != KindNotFound {
		t.Errorf("From(wrapped) kind = %q, want %q", got.Kind, KindNotFound)
	}

	plain := errors.New("boom")
	got := From(plain)
	if got.Kind != KindInternal {
		t.Errorf("From(plain) kind = %q, want %q", got.Kind, KindInternal)
	}
	if got.Message != "boom" {
		t.Errorf("From(plain) message = %q, want %q", got.Message, "boom")
	}
}
