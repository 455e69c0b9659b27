package services

import "strings"

// Logbook entry statuses. needs_revision is not terminal: the intern may
// resubmit, which resets the entry to pending in place.
const (
	LogbookStatusPending       = "pending"
	LogbookStatusApproved      = "approved"
	LogbookStatusNeedsRevision = "needs_revision"
)

// Task assignment statuses. done can be reopened back to in_progress;
// cancelled is terminal.
const (
	AssignmentStatusPending    = "pending"
	AssignmentStatusInProgress = "in_progress"
	AssignmentStatusDone       = "done"
	AssignmentStatusCancelled  = "cancelled"
)

var logbookTransitions = map[string][]string{
	LogbookStatusPending:       {LogbookStatusApproved, LogbookStatusNeedsRevision},
	LogbookStatusApproved:      {},
	LogbookStatusNeedsRevision: {LogbookStatusPending},
}

var assignmentTransitions = map[string][]string{
	AssignmentStatusPending:    {AssignmentStatusInProgress, AssignmentStatusCancelled},
	AssignmentStatusInProgress: {AssignmentStatusDone, AssignmentStatusPending, AssignmentStatusCancelled},
	AssignmentStatusDone:       {AssignmentStatusInProgress},
	AssignmentStatusCancelled:  {},
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransitionLogbook reports whether a logbook entry may move from one
// status to another. The needs_revision -> pending edge is the resubmission
// path and is driven by the intern, not a reviewer.
func CanTransitionLogbook(from, to string) bool {
	return contains(logbookTransitions[from], to)
}

// CanTransitionAssignment reports whether a task assignment may move from
// one status to another. done -> in_progress is "reopen",
// in_progress -> pending is "pause".
func CanTransitionAssignment(from, to string) bool {
	return contains(assignmentTransitions[from], to)
}

// IsLogbookStatus reports whether s is a known logbook entry status.
func IsLogbookStatus(s string) bool {
	_, ok := logbookTransitions[s]
	return ok
}

// IsAssignmentStatus reports whether s is a known task assignment status.
func IsAssignmentStatus(s string) bool {
	_, ok := assignmentTransitions[s]
	return ok
}

// FeedbackRequired reports whether a review decision targeting the given
// status must carry non-empty feedback. Approval needs none; sending an
// entry back for revision always does.
func FeedbackRequired(target string) bool {
	return target == LogbookStatusNeedsRevision
}

// HasFeedback reports whether the given feedback satisfies the non-empty
// rule. Whitespace-only feedback does not count.
func HasFeedback(feedback string) bool {
	return strings.TrimSpace(feedback) != ""
}
