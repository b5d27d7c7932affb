package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorIs(t *testing.T) {
	driverErr := errors.New("UNIQUE constraint failed: accounts.user_id, accounts.name")

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same_sentinel", ErrAccountNotFound, ErrAccountNotFound, true},
		{"wrapped_copy", Wrap(ErrConflict, driverErr), ErrConflict, true},
		{"new_message", WithMessage(ErrAccountNotFound, "Account is deactivated"), ErrAccountNotFound, true},
		{"fmt_wrapped", fmt.Errorf("create account: %w", ErrAccountAlreadyExists), ErrAccountAlreadyExists, true},
		{"different_code", ErrAccountNotFound, ErrTransactionNotFound, false},
		{"internal_cause", Wrap(ErrInternalServer, driverErr), driverErr, true},
		{"plain_target", ErrNotFound, errors.New("Resource not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsSentinel(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrInternalServer, cause)

	if err.StatusCode != http.StatusInternalServerError || err.Message != ErrInternalServer.Message {
		t.Errorf("unexpected wrapped error: %+v", err)
	}
	if ErrInternalServer.Internal != nil {
		t.Error("Wrap must not mutate the sentinel")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable")
	}
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrValidation, "a purchase needs a description")

	if err.Error() != "a purchase needs a description" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Code != "VALIDATION_ERROR" || err.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("unexpected code/status: %s/%d", err.Code, err.StatusCode)
	}
	if ErrValidation.Message != "Validation failed" {
		t.Error("WithMessage must not mutate the sentinel")
	}
}
