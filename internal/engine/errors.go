package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected during engine execution.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// ProcessID identifies the failing process, when relevant.
	ProcessID string

	// Step is the simulation step at which the error occurred.
	Step int
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInvalidStatus indicates an illegal engine status assignment.
	ErrCodeInvalidStatus RuntimeErrorCode = "INVALID_STATUS"

	// ErrCodeInvalidSpeed indicates a speed outside the allowed range.
	ErrCodeInvalidSpeed RuntimeErrorCode = "INVALID_SPEED"

	// ErrCodeDuplicateProcess indicates two processes share an ID.
	ErrCodeDuplicateProcess RuntimeErrorCode = "DUPLICATE_PROCESS"

	// ErrCodeEngineDead indicates a command arrived after the engine died.
	ErrCodeEngineDead RuntimeErrorCode = "ENGINE_DEAD"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.ProcessID != "" {
		return fmt.Sprintf("%s: %s (process=%s, step=%d)", e.Code, e.Message, e.ProcessID, e.Step)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsEngineDead reports whether the error means the engine already stopped.
// Uses errors.As to handle wrapped errors.
func IsEngineDead(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeEngineDead
	}
	return false
}
