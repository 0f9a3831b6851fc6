package services

import (
	"errors"
	"fmt"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound           = errors.New("resource not found")
	ErrPreconditionFailed = errors.New("precondition no longer holds")
	ErrValidationFailed   = errors.New("validation failed")
	ErrInternalError      = errors.New("internal error")

	// Result / grading specific errors
	ErrResultNotFound   = errors.New("assessment result not found")
	ErrResultNotGraded  = errors.New("assessment result not graded yet")
	ErrAlreadyGraded    = errors.New("assessment result already graded")
	ErrQuestionNotFound = errors.New("question referenced by answer not found")

	// Profile specific errors
	ErrProfileNotFound = errors.New("candidate profile not found")

	// Batch specific errors
	ErrBatchNotFound = errors.New("batch not found")

	// Notification specific errors
	ErrNotificationSend = errors.New("notification send failed")
)

// ===== CUSTOM ERROR TYPES =====

// NotificationError carries the recipient so a dead-lettered send job is
// diagnosable from the log line alone.
type NotificationError struct {
	Address string `json:"address"`
	Reason  string `json:"reason"`
}

func (ne *NotificationError) Error() string {
	return fmt.Sprintf("notification to %s failed: %s", ne.Address, ne.Reason)
}

func (ne *NotificationError) Unwrap() error {
	return ErrNotificationSend
}

func NewNotificationError(address, reason string) *NotificationError {
	return &NotificationError{Address: address, Reason: reason}
}

// ===== ERROR CLASSIFICATION =====

// IsNotFound checks if error represents a "referenced entity missing"
// condition. The orchestrator resolves these to no-op success.
func IsNotFound(err error) bool {
	// ErrQuestionNotFound is deliberately absent: a result whose answers
	// reference a missing question is inconsistent data, not a superseded
	// job, so it stays retryable.
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrResultNotFound) ||
		errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrBatchNotFound)
}

// IsPreconditionFailed checks if error represents an expected
// "nothing to do" state, e.g. grading a result that is already graded.
func IsPreconditionFailed(err error) bool {
	return errors.Is(err, ErrPreconditionFailed) ||
		errors.Is(err, ErrAlreadyGraded) ||
		errors.Is(err, ErrResultNotGraded)
}

// IsNoOp reports whether a job execution hitting err should complete
// successfully without side effects instead of being retried.
func IsNoOp(err error) bool {
	return IsNotFound(err) || IsPreconditionFailed(err)
}
