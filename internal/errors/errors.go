package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// UnsupportedLanguage indicates a file extension with no grammar
	UnsupportedLanguage ErrorCode = "UNSUPPORTED_LANGUAGE"
	// ParseFailed indicates the parser recovered from syntax errors
	ParseFailed ErrorCode = "PARSE_FAILED"
	// IOFailed indicates a file could not be read or written
	IOFailed ErrorCode = "IO_FAILED"
	// CacheUnavailable indicates the checksum cache could not be opened
	CacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// NotOrdered indicates a checked file is not in dependency order
	NotOrdered ErrorCode = "NOT_ORDERED"
	// ConfigInvalid indicates a configuration value failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
	// EditConfig suggests changing a configuration value
	EditConfig FixActionType = "edit-config"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// Error is a deporder error with a stable code, the file it concerns and suggestions.
type Error struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Path           string      `json:"path,omitempty"`
	Details        any         `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates an error with the suggested fixes registered for code.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:           code,
		Message:        message,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Wrap creates an error with an underlying cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	e := New(code, message)
	e.cause = cause
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithPath records the file the error concerns.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	NotOrdered: {
		{
			Type:        RunCommand,
			Command:     "deporder --write ${paths}",
			Safe:        true,
			Description: "Rewrite the files in dependency order",
		},
	},
	ParseFailed: {
		{
			Type:        RunCommand,
			Command:     "deporder --allow-errors ${paths}",
			Description: "Reorder anyway; declarations inside broken regions are left alone",
		},
	},
	CacheUnavailable: {
		{
			Type:        RunCommand,
			Command:     "deporder cache clear",
			Safe:        true,
			Description: "Remove the checksum cache so it is recreated",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "deporder config show",
			Safe:        true,
			Description: "Print the effective configuration",
		},
	},
	UnsupportedLanguage: {
		{
			Type:        EditConfig,
			Description: "Limit include patterns to .ts, .tsx, .js and .jsx sources",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}

// CodeOf returns the code of the first *Error in err's chain, or InternalError.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return InternalError
}

// Is reports whether err carries code anywhere in its chain.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.cause
	}
	return false
}

// ExitCode maps err to a process exit status: 0 on success, 1 when files are out of
// order, 2 for every other failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case CodeOf(err) == NotOrdered:
		return 1
	default:
		return 2
	}
}
