package client

import (
	"fmt"
	"sync"
)

// OpKind names the mutation in flight for a record, so the UI can scope
// disabled states and retry controls to exactly that record.
type OpKind string

const (
	OpReview       OpKind = "review"
	OpStatusUpdate OpKind = "status_update"
	OpComment      OpKind = "comment"
	OpAttachment   OpKind = "attachment"
)

// ErrMutationInFlight is returned when a second mutation is attempted for a
// record whose first one has not come back yet. This reduces, not
// eliminates, double-submit races; the server's conflict check is the
// backstop.
type ErrMutationInFlight struct {
	Key  string
	Kind OpKind
}

func (e *ErrMutationInFlight) Error() string {
	return fmt.Sprintf("a %s operation is already in flight for %s", e.Kind, e.Key)
}

// MutationTracker records which record has which mutation outstanding.
// Tracking is per record key, never global: approving one logbook entry
// must not disable the review buttons on every other row.
type MutationTracker struct {
	mu       sync.Mutex
	inflight map[string]OpKind
}

func NewMutationTracker() *MutationTracker {
	return &MutationTracker{inflight: make(map[string]OpKind)}
}

// EntryKey builds the tracker key for a logbook entry.
func EntryKey(entryID int) string {
	return fmt.Sprintf("logbook:%d", entryID)
}

// AssignmentKey builds the tracker key for one (task, intern) assignment.
func AssignmentKey(taskID, internID int) string {
	return fmt.Sprintf("assignment:%d:%d", taskID, internID)
}

// TaskKey builds the tracker key for task-scoped collaboration operations.
func TaskKey(taskID int) string {
	return fmt.Sprintf("task:%d", taskID)
}

// Begin marks a mutation as in flight. It fails if one is already pending
// for the same key.
func (t *MutationTracker) Begin(key string, kind OpKind) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.inflight[key]; ok {
		return &ErrMutationInFlight{Key: key, Kind: existing}
	}
	t.inflight[key] = kind
	return nil
}

// End clears the in-flight mark, success or failure.
func (t *MutationTracker) End(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inflight, key)
}

// IsMutating reports the pending operation kind for a record, if any.
func (t *MutationTracker) IsMutating(key string) (OpKind, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	kind, ok := t.inflight[key]
	return kind, ok
}
