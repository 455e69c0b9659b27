package services

import "fmt"

// ValidationError means the request was malformed before any state was
// touched: a required field (review feedback, comment body) was missing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// InvalidTransitionError means the requested status change is not in the
// legal-transition table for the record's current status.
type InvalidTransitionError struct {
	RecordKind string
	From       string
	To         string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %s to %s", e.RecordKind, e.From, e.To)
}

// ConflictError means the stored status no longer matches the status the
// caller last observed; someone else got there first.
type ConflictError struct {
	RecordKind string
	Expected   string
	Actual     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s status changed: expected %s, found %s", e.RecordKind, e.Expected, e.Actual)
}

// NotFoundError means the target record does not exist or was deleted
// concurrently.
type NotFoundError struct {
	RecordKind string
	ID         int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.RecordKind, e.ID)
}
