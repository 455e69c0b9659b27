package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"
)

var (
	entrySelectPattern      = regexp.MustCompile("SELECT .* FROM `logbook_entries`")
	entryUpdatePattern      = regexp.MustCompile("UPDATE `logbook_entries`")
	historyInsertPattern    = regexp.MustCompile("INSERT INTO `review_history`")
	assignmentSelectPattern = regexp.MustCompile("SELECT .* FROM `task_assignments`")
	assignmentUpdatePattern = regexp.MustCompile("UPDATE `task_assignments`")
	assignmentCountPattern  = regexp.MustCompile("SELECT count\\(\\*\\) FROM `task_assignments`")
	assignmentInsertPattern = regexp.MustCompile("INSERT INTO `task_assignments`")
)

func TestSubmitReviewApprovesWithoutFeedback(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: entrySelectPattern,
			columns: []string{"entry_id", "intern_id", "status"},
			rows:    [][]driver.Value{{int64(7), int64(3), "pending"}},
		},
		{
			kind:    kindExec,
			pattern: entryUpdatePattern,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: historyInsertPattern,
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	entry, err := svc.SubmitReview(ReviewRequest{
		EntryID:        7,
		ObservedStatus: LogbookStatusPending,
		TargetStatus:   LogbookStatusApproved,
		Feedback:       "",
		ReviewerID:     12,
	})
	if err != nil {
		t.Fatalf("SubmitReview returned error: %v", err)
	}

	if entry.Status != LogbookStatusApproved {
		t.Errorf("status = %q, want approved", entry.Status)
	}
	if entry.ReviewedAt == nil || entry.ReviewedBy == nil {
		t.Fatal("reviewed_at and reviewed_by must be set together on approval")
	}
	if *entry.ReviewedBy != 12 {
		t.Errorf("reviewed_by = %d, want 12", *entry.ReviewedBy)
	}
	if entry.Feedback != nil {
		t.Errorf("feedback should stay nil on approval without feedback, got %q", *entry.Feedback)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitReviewRejectsRevisionWithoutFeedback(t *testing.T) {
	// Validation fails before anything is sent to the database.
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewReviewService(db)
	for _, feedback := range []string{"", "   ", "\t\n"} {
		_, err := svc.SubmitReview(ReviewRequest{
			EntryID:      7,
			TargetStatus: LogbookStatusNeedsRevision,
			Feedback:     feedback,
			ReviewerID:   12,
		})
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("feedback %q: got %v, want ValidationError", feedback, err)
		}
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("database was touched: %v", err)
	}
}

func TestSubmitReviewRejectsPendingTarget(t *testing.T) {
	// A reviewer cannot move an entry to pending; that edge is the intern's
	// resubmission path. Nothing reaches the database, so no needs_revision
	// entry ever ends up pending with the reviewed pair stamped.
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewReviewService(db)
	_, err := svc.SubmitReview(ReviewRequest{
		EntryID:        7,
		ObservedStatus: LogbookStatusNeedsRevision,
		TargetStatus:   LogbookStatusPending,
		ReviewerID:     99,
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("got %v, want ValidationError", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("database was touched: %v", err)
	}
}

func TestSubmitReviewConflictOnStaleObservedStatus(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: entrySelectPattern,
			columns: []string{"entry_id", "intern_id", "status"},
			rows:    [][]driver.Value{{int64(7), int64(3), "approved"}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	_, err := svc.SubmitReview(ReviewRequest{
		EntryID:        7,
		ObservedStatus: LogbookStatusPending,
		TargetStatus:   LogbookStatusApproved,
		ReviewerID:     12,
	})

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("got %v, want ConflictError", err)
	}
	if conflictErr.Expected != LogbookStatusPending || conflictErr.Actual != LogbookStatusApproved {
		t.Errorf("conflict = %+v, want expected pending / actual approved", conflictErr)
	}

	// No update was issued; the stored status is untouched.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected writes: %v", err)
	}
}

func TestSubmitReviewRejectsIllegalTransition(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: entrySelectPattern,
			columns: []string{"entry_id", "intern_id", "status"},
			rows:    [][]driver.Value{{int64(7), int64(3), "approved"}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	_, err := svc.SubmitReview(ReviewRequest{
		EntryID:        7,
		ObservedStatus: LogbookStatusApproved,
		TargetStatus:   LogbookStatusNeedsRevision,
		Feedback:       "too late, already approved",
		ReviewerID:     12,
	})

	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("got %v, want InvalidTransitionError", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected writes: %v", err)
	}
}

func TestSubmitReviewNotFound(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: entrySelectPattern,
			columns: []string{"entry_id", "intern_id", "status"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	_, err := svc.SubmitReview(ReviewRequest{
		EntryID:      404,
		TargetStatus: LogbookStatusApproved,
		ReviewerID:   12,
	})

	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("got %v, want NotFoundError", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestResubmitClearsReviewFieldsTogether(t *testing.T) {
	reviewedAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: entrySelectPattern,
			columns: []string{"entry_id", "intern_id", "status", "reviewed_at", "reviewed_by", "feedback"},
			rows:    [][]driver.Value{{int64(7), int64(3), "needs_revision", reviewedAt, int64(12), "add the afternoon session"}},
		},
		{
			kind:    kindExec,
			pattern: entryUpdatePattern,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: historyInsertPattern,
			result:  scriptedResult{lastInsertID: 2, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	entry, err := svc.ResubmitLogbookEntry(7, 3)
	if err != nil {
		t.Fatalf("ResubmitLogbookEntry returned error: %v", err)
	}

	if entry.Status != LogbookStatusPending {
		t.Errorf("status = %q, want pending", entry.Status)
	}
	if entry.ReviewedAt != nil || entry.ReviewedBy != nil || entry.Feedback != nil {
		t.Error("reviewed_at, reviewed_by and feedback must all be cleared on resubmission")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReopenAssignmentClearsCompletion(t *testing.T) {
	startedAt := time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)
	completedAt := time.Date(2026, 2, 12, 16, 0, 0, 0, time.UTC)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assignmentSelectPattern,
			columns: []string{"assignment_id", "task_id", "intern_id", "status", "started_at", "completed_at", "reviewed_at", "reviewed_by"},
			rows:    [][]driver.Value{{int64(5), int64(2), int64(3), "done", startedAt, completedAt, completedAt, int64(12)}},
		},
		{
			kind:    kindExec,
			pattern: assignmentUpdatePattern,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: historyInsertPattern,
			result:  scriptedResult{lastInsertID: 3, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	assignment, err := svc.ReopenAssignment(2, 3, 12)
	if err != nil {
		t.Fatalf("ReopenAssignment returned error: %v", err)
	}

	if assignment.Status != AssignmentStatusInProgress {
		t.Errorf("status = %q, want in_progress", assignment.Status)
	}
	if assignment.CompletedAt != nil {
		t.Error("completed_at must be cleared on reopen")
	}
	if assignment.ReviewedAt != nil || assignment.ReviewedBy != nil {
		t.Error("reviewed pair must be cleared on reopen")
	}
	if assignment.StartedAt == nil || !assignment.StartedAt.Equal(startedAt) {
		t.Error("started_at must be preserved on reopen")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateAssignmentStatusConflictOnStaleObservedStatus(t *testing.T) {
	// A second caller acting on a snapshot taken before the first caller's
	// change gets a conflict, not a silent overwrite.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assignmentSelectPattern,
			columns: []string{"assignment_id", "task_id", "intern_id", "status"},
			rows:    [][]driver.Value{{int64(5), int64(2), int64(3), "done"}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	_, err := svc.UpdateAssignmentStatus(AssignmentStatusRequest{
		TaskID:         2,
		InternID:       3,
		ObservedStatus: AssignmentStatusInProgress,
		TargetStatus:   AssignmentStatusDone,
		ActorID:        3,
	})

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("got %v, want ConflictError", err)
	}
	if conflictErr.Expected != AssignmentStatusInProgress || conflictErr.Actual != AssignmentStatusDone {
		t.Errorf("conflict = %+v, want expected in_progress / actual done", conflictErr)
	}

	// No update was issued; the stored status is untouched.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected writes: %v", err)
	}
}

func TestUpdateAssignmentStatusRejectsPendingToDone(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assignmentSelectPattern,
			columns: []string{"assignment_id", "task_id", "intern_id", "status"},
			rows:    [][]driver.Value{{int64(5), int64(2), int64(3), "pending"}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	_, err := svc.UpdateAssignmentStatus(AssignmentStatusRequest{
		TaskID:       2,
		InternID:     3,
		TargetStatus: AssignmentStatusDone,
		ActorID:      3,
	})

	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("got %v, want InvalidTransitionError", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected writes: %v", err)
	}
}

func TestCreateAssignmentRejectsDuplicatePair(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assignmentCountPattern,
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	_, err := svc.CreateAssignment(2, 3)

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("got %v, want ValidationError for duplicate (task, intern) pair", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateAssignmentStartsPending(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assignmentCountPattern,
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    kindExec,
			pattern: assignmentInsertPattern,
			result:  scriptedResult{lastInsertID: 9, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	assignment, err := svc.CreateAssignment(2, 3)
	if err != nil {
		t.Fatalf("CreateAssignment returned error: %v", err)
	}

	if assignment.Status != AssignmentStatusPending {
		t.Errorf("status = %q, want pending", assignment.Status)
	}
	if assignment.AssignedAt.IsZero() {
		t.Error("assigned_at must be stamped at creation")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
