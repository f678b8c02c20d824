package model

import (
	"fmt"
	"strings"
)

// ParseError reports an input line that could not be interpreted as an edge
// or a processor directive.
type ParseError struct {
	Line   int    // 1-based line number in the input
	Text   string // offending line or token
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s (%q)", e.Line, e.Reason, e.Text)
}

// MalformedTreeError reports input that parses line by line but does not
// describe a single rooted out-tree: no unique root, a multi-parent or
// duplicate edge, or nodes unreachable from the root.
type MalformedTreeError struct {
	Reason string
}

func (e *MalformedTreeError) Error() string {
	return "malformed tree: " + e.Reason
}

// InvalidConfigurationError reports an unusable simulation configuration,
// such as a processor count below 1.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

// DeadlockError reports a simulation that stopped before every task
// completed. It indicates tasks whose dependencies never became satisfied.
type DeadlockError struct {
	Completed int
	Total     int
	Remaining []string // names of tasks that never ran
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("scheduling deadlock: %d of %d tasks completed, stuck: %s",
		e.Completed, e.Total, strings.Join(e.Remaining, ", "))
}

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
)

// APIError is a structured error returned by the schedsim API.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a VALIDATION_ERROR APIError.
func NewValidationError(msg string) *APIError {
	return &APIError{Code: ErrValidation, Message: msg}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}
