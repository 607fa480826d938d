package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"canvas-agent/internal/colorpolicy"
)

type ErrorKind string

const (
	ErrorUnauthenticated    ErrorKind = "UNAUTHENTICATED"
	ErrorInvalidArgument    ErrorKind = "INVALID_ARGUMENT"
	ErrorFailedPrecondition ErrorKind = "FAILED_PRECONDITION"
	ErrorDeadlineExceeded   ErrorKind = "DEADLINE_EXCEEDED"
	ErrorInternal           ErrorKind = "INTERNAL"
)

// User-facing messages. Nothing else reaches the caller.
const (
	MessageUnauthenticated  = "User must be authenticated."
	MessageEmptyInput       = "User input is required."
	MessageConfiguration    = "AI service configuration error."
	MessageTimeout          = "AI request timed out. Please try again."
	MessageInvalidFormat    = "AI returned invalid response format"
	MessageMissingFields    = "AI response missing required fields"
	MessageGenericFailure   = "Failed to parse command. Please try rephrasing."
	MessageColorViolation   = colorpolicy.ViolationMessage
	messageInputTooLongTmpl = "User input too long (max %d characters)."
)

// Error is a classified pipeline failure. Message is safe to show to the
// caller; Reason and Err are for logs only.
type Error struct {
	Kind    ErrorKind
	Message string
	Reason  string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Kind, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Kind, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(kind ErrorKind, reason, message string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message, Err: err}
}

func inputTooLongMessage(max int) string {
	return fmt.Sprintf(messageInputTooLongTmpl, max)
}

// classifyError maps any failure to exactly one kind. Already classified
// errors pass through unchanged.
func classifyError(err error) *Error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"):
		return newError(ErrorFailedPrecondition, "model_configuration_error", MessageConfiguration, err)
	case strings.Contains(msg, "timeout"), errors.Is(err, context.DeadlineExceeded):
		return newError(ErrorDeadlineExceeded, "model_timeout", MessageTimeout, err)
	default:
		return newError(ErrorInternal, "unclassified_error", MessageGenericFailure, err)
	}
}
