package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusBadRequest)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if !errors.Is(wrapped, originalErr) {
		t.Errorf("expected wrapped error to unwrap to the original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "booking not found",
			},
			expected: "NOT_FOUND: booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestConstructorStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
		code   string
	}{
		{"not found", NotFound("Booking"), http.StatusNotFound, CodeNotFound},
		{"invalid input", InvalidInput("bad"), http.StatusBadRequest, CodeInvalidInput},
		{"validation", Validation("bad", nil), http.StatusBadRequest, CodeValidation},
		{"conflict", Conflict("taken"), http.StatusConflict, CodeConflict},
		{"forbidden", Forbidden("not yours"), http.StatusForbidden, CodeForbidden},
		{"insufficient stock", InsufficientStock("out"), http.StatusBadRequest, CodeInsufficientStock},
		{"insufficient funds", InsufficientFunds("broke"), http.StatusBadRequest, CodeInsufficientFunds},
		{"promo invalid", PromoInvalid("expired"), http.StatusBadRequest, CodePromoInvalid},
		{"internal", Internal("boom", errors.New("x")), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
		})
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Purchase")
	if got := AsAppError(appErr); got != appErr {
		t.Errorf("expected AsAppError to return the same AppError")
	}

	plain := errors.New("disk full")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("expected plain errors to wrap as %s, got %s", CodeInternal, got.Code)
	}
	if !errors.Is(got, plain) {
		t.Errorf("expected wrapped error to retain the cause")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "507f1f77bcf86cd799439011")
	if err.Details["id"] != "507f1f77bcf86cd799439011" {
		t.Errorf("expected id detail to be set")
	}
	if err.Details["resource"] != "Booking" {
		t.Errorf("expected resource detail to be set")
	}
}
