// File: internal/services/chat/errors.go
package chat

import "fmt"

type ErrorType string

const (
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeUpstream     ErrorType = "UPSTREAM"
	ErrTypeStorage      ErrorType = "STORAGE"
)

// ChatError carries the failure taxonomy for one turn. Every failure is local
// to the request that caused it: prior history is never touched.
type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	ThreadID  string
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error { return e.Cause }

// IsType reports whether err is a *ChatError of the given type.
func IsType(err error, t ErrorType) bool {
	ce, ok := err.(*ChatError)
	return ok && ce.Type == t
}

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewUnauthorizedError(username, threadID string) *ChatError {
	return &ChatError{
		Type:      ErrTypeUnauthorized,
		Operation: "authorization",
		Message:   "thread not found or not owned by " + username,
		ThreadID:  threadID,
	}
}

func NewUpstreamError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeUpstream, Operation: operation, Message: msg, Cause: cause}
}

func NewStorageError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeStorage, Operation: operation, Message: msg, Cause: cause}
}
