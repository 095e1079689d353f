package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(NotOrdered, "members out of order")

	if err.Code != NotOrdered {
		t.Errorf("Code = %v, want %v", err.Code, NotOrdered)
	}
	if err.Message != "members out of order" {
		t.Errorf("Message = %q, want %q", err.Message, "members out of order")
	}
	if len(err.SuggestedFixes) != 1 {
		t.Errorf("len(SuggestedFixes) = %d, want 1", len(err.SuggestedFixes))
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		wantParts []string
	}{
		{
			name:      "with cause",
			err:       Wrap(IOFailed, "read source", errors.New("permission denied")),
			wantParts: []string{"IO_FAILED", "read source", "permission denied"},
		},
		{
			name:      "without cause",
			err:       New(UnsupportedLanguage, `no grammar for ".py"`),
			wantParts: []string{"UNSUPPORTED_LANGUAGE", `no grammar for ".py"`},
		},
		{
			name:      "with path",
			err:       New(ParseFailed, "syntax errors").WithPath("src/a.ts"),
			wantParts: []string{"PARSE_FAILED", "src/a.ts: syntax errors"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(InternalError, "something went wrong", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	// Test nil cause
	if New(ConfigInvalid, "bad").Unwrap() != nil {
		t.Errorf("Unwrap() on error without cause should return nil")
	}
}

func TestError_WithDetails(t *testing.T) {
	err := New(NotOrdered, "out of order")
	result := err.WithDetails(map[string]int{"files": 3})

	if result != err {
		t.Error("WithDetails should return the same error for chaining")
	}
	if err.Details == nil {
		t.Error("Details should be set")
	}
}

func TestIsAndCodeOf(t *testing.T) {
	inner := Wrap(CacheUnavailable, "open cache", errors.New("disk full"))
	outer := fmt.Errorf("run: %w", Wrap(InternalError, "engine", inner))

	if !Is(outer, CacheUnavailable) {
		t.Error("Is(outer, CACHE_UNAVAILABLE) = false, want true")
	}
	if !Is(outer, InternalError) {
		t.Error("Is(outer, INTERNAL_ERROR) = false, want true")
	}
	if Is(outer, NotOrdered) {
		t.Error("Is(outer, NOT_ORDERED) = true, want false")
	}
	if Is(errors.New("plain"), InternalError) {
		t.Error("Is(plain error) = true, want false")
	}

	if got := CodeOf(outer); got != InternalError {
		t.Errorf("CodeOf(outer) = %v, want %v", got, InternalError)
	}
	if got := CodeOf(errors.New("plain")); got != InternalError {
		t.Errorf("CodeOf(plain) = %v, want %v", got, InternalError)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"not ordered", New(NotOrdered, "check failed"), 1},
		{"wrapped not ordered", fmt.Errorf("check: %w", New(NotOrdered, "x")), 1},
		{"parse failure", New(ParseFailed, "x"), 2},
		{"plain error", errors.New("boom"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		wantNil bool
		wantLen int
	}{
		{NotOrdered, false, 1},
		{ParseFailed, false, 1},
		{CacheUnavailable, false, 1},
		{ConfigInvalid, false, 1},
		{UnsupportedLanguage, false, 1},
		{IOFailed, true, 0},      // No predefined fixes
		{InternalError, true, 0}, // No predefined fixes
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			fixes := GetSuggestedFixes(tt.code)

			if tt.wantNil && fixes != nil {
				t.Errorf("GetSuggestedFixes(%v) = %v, want nil", tt.code, fixes)
			}
			if !tt.wantNil && len(fixes) != tt.wantLen {
				t.Errorf("GetSuggestedFixes(%v) len = %d, want %d", tt.code, len(fixes), tt.wantLen)
			}
		})
	}
}

func TestErrorCodes(t *testing.T) {
	// Ensure all error codes are unique
	codes := []ErrorCode{
		UnsupportedLanguage,
		ParseFailed,
		IOFailed,
		CacheUnavailable,
		NotOrdered,
		ConfigInvalid,
		InternalError,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %v", code)
		}
		seen[code] = true

		if string(code) == "" {
			t.Error("Error code should not be empty")
		}
	}
}

func TestErrorActionsMap(t *testing.T) {
	for code, fixes := range ErrorActions {
		if len(fixes) == 0 {
			t.Errorf("ErrorActions[%v] has no fix actions", code)
		}
		for i, fix := range fixes {
			if fix.Type == "" {
				t.Errorf("ErrorActions[%v][%d].Type is empty", code, i)
			}
		}
	}
}
