package errors

import (
	"fmt"
	"testing"
)

func TestSessionError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeSessionsFileNotFound, "missing")
	if err.Code != ErrCodeSessionsFileNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeSessionsFileNotFound, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeWriteFailed, "write failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	if !Is(wrapped, ErrCodeWriteFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeReadFailed) {
		t.Error("Is should return false for non-matching code")
	}

	// Codes survive fmt.Errorf wrapping
	outer := fmt.Errorf("dedup: %w", wrapped)
	if GetCode(outer) != ErrCodeWriteFailed {
		t.Errorf("GetCode through wrapper = %s", GetCode(outer))
	}
	if got, ok := As(outer); !ok || got != wrapped {
		t.Error("As should find the wrapped SessionError")
	}

	detailed := err.WithDetail("path", "/tmp/x").WithDetail("count", 2)
	if detailed.Details["path"] != "/tmp/x" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := SessionsFileNotFound("/tmp/.current-sessions")
	if err.Code != ErrCodeSessionsFileNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeSessionsFileNotFound, err.Code)
	}
	if err.Details["path"] != "/tmp/.current-sessions" {
		t.Error("SessionsFileNotFound should include path detail")
	}

	err = MalformedTimestamp("started", "yesterday", "s1.md")
	if err.Code != ErrCodeMalformedTimestamp {
		t.Errorf("expected code %s, got %s", ErrCodeMalformedTimestamp, err.Code)
	}
	if err.Details["value"] != "yesterday" {
		t.Error("MalformedTimestamp should include value detail")
	}

	if Is(nil, ErrCodeInternal) {
		t.Error("Is(nil) should be false")
	}
}
