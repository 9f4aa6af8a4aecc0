package remote

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes remote collection failures.
type ErrorCode string

const (
	// ErrCodeNetwork indicates the remote store was unreachable or the
	// response could not be read or decoded.
	ErrCodeNetwork ErrorCode = "NETWORK"

	// ErrCodeValidation indicates the remote store rejected the payload.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeNotFound indicates the record or collection does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Error represents a failure of one remote collection operation.
//
// Remote failures are opaque to callers: whatever the store reported, the
// user-facing Message is one generic string per operation kind. The Code
// and operation fields exist for logging and tests, not for display.
type Error struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Op is the operation kind: "list", "create", "update", or "delete".
	Op string

	// Collection is the remote collection name.
	Collection string

	// Message is the generic user-facing description for this Op.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s %s: %s", e.Code, e.Op, e.Collection, e.Message)
}

// IsNotFound returns true if the error is a remote not-found failure.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeNotFound
	}
	return false
}

// IsValidation returns true if the error is a remote validation failure.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeValidation
	}
	return false
}

// opMessages maps operation kinds to their single generic user-facing
// message. Every failure of an operation kind surfaces the same text
// regardless of the underlying cause.
var opMessages = map[string]string{
	"list":   "could not load records",
	"create": "could not create record",
	"update": "could not save changes",
	"delete": "could not delete record",
}

// newError builds the Error for an operation kind against a collection.
func newError(code ErrorCode, op, collection string) *Error {
	msg, ok := opMessages[op]
	if !ok {
		msg = "operation failed"
	}
	return &Error{Code: code, Op: op, Collection: collection, Message: msg}
}
