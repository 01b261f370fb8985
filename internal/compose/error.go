package compose

import "fmt"

// Composition error codes. Composition fails fast: none of the checkers run
// against a partially composed source.
const (
	// ErrorCodeMissingSlot indicates a required slot has no parameter
	ErrorCodeMissingSlot = "COMPOSE_MISSING_SLOT"

	// ErrorCodeTypeMismatch indicates a parameter value fails its slot type
	ErrorCodeTypeMismatch = "COMPOSE_TYPE_MISMATCH"

	// ErrorCodeUnknownParam indicates a parameter that matches no declared slot
	ErrorCodeUnknownParam = "COMPOSE_UNKNOWN_PARAM"

	// ErrorCodeUnknownSlot indicates the template body references an undeclared slot
	ErrorCodeUnknownSlot = "COMPOSE_UNKNOWN_SLOT"

	// ErrorCodeUnusedSlot indicates a declared slot never appears in the body
	ErrorCodeUnusedSlot = "COMPOSE_UNUSED_SLOT"

	// ErrorCodeDuplicateSlot indicates a declared slot appears in the body more than once
	ErrorCodeDuplicateSlot = "COMPOSE_DUPLICATE_SLOT"
)

// Error is a composition failure. It aborts the pipeline before any checker
// runs; nothing downstream can be meaningfully checked without a complete
// source.
type Error struct {
	Code    string `json:"code"`
	Slot    string `json:"slot,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func missingSlot(name string) *Error {
	return &Error{
		Code:    ErrorCodeMissingSlot,
		Slot:    name,
		Message: fmt.Sprintf("required slot %q has no parameter", name),
	}
}

func typeMismatch(name string, cause error) *Error {
	return &Error{
		Code:    ErrorCodeTypeMismatch,
		Slot:    name,
		Message: fmt.Sprintf("parameter %q: %v", name, cause),
	}
}

func unknownParam(name string) *Error {
	return &Error{
		Code:    ErrorCodeUnknownParam,
		Slot:    name,
		Message: fmt.Sprintf("parameter %q matches no declared slot", name),
	}
}
