package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"internship-management-api/models"

	"gorm.io/gorm"
)

// ReviewService owns every status transition of logbook entries and task
// assignments. Nothing else in the codebase writes those status columns.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// ReviewRequest carries a supervisor's decision on a logbook entry.
// ObservedStatus is the status the reviewer saw when they made the call;
// a mismatch with the stored row fails with ConflictError instead of
// silently overwriting someone else's decision.
type ReviewRequest struct {
	EntryID        int
	ObservedStatus string
	TargetStatus   string
	Feedback       string
	ReviewerID     int
}

// AssignmentStatusRequest carries a per-intern status change for one task.
// It is scoped to a single (task, intern) pair and is independent of the
// task's own status and of the other assignments on the same task.
type AssignmentStatusRequest struct {
	TaskID         int
	InternID       int
	ObservedStatus string
	TargetStatus   string
	Notes          *string
	ActorID        int
}

// SubmitReview applies a supervisor decision to a pending logbook entry.
// reviewed_at and reviewed_by are stamped together on success, and a
// history row records the transition.
func (s *ReviewService) SubmitReview(req ReviewRequest) (*models.LogbookEntry, error) {
	if !IsLogbookStatus(req.TargetStatus) {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", req.TargetStatus)}
	}
	// pending is not a decision. The needs_revision -> pending edge belongs
	// to the intern's resubmission path, which clears the reviewed pair
	// instead of stamping it.
	if req.TargetStatus == LogbookStatusPending {
		return nil, &ValidationError{Field: "status", Message: "a review decision must be approved or needs_revision"}
	}
	if FeedbackRequired(req.TargetStatus) && !HasFeedback(req.Feedback) {
		return nil, &ValidationError{Field: "feedback", Message: "feedback is required when requesting revision"}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var entry models.LogbookEntry
	if err := tx.Where("entry_id = ? AND delete_at IS NULL", req.EntryID).First(&entry).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{RecordKind: models.RecordKindLogbookEntry, ID: req.EntryID}
		}
		return nil, fmt.Errorf("load logbook entry: %w", err)
	}

	if req.ObservedStatus != "" && entry.Status != req.ObservedStatus {
		tx.Rollback()
		return nil, &ConflictError{RecordKind: models.RecordKindLogbookEntry, Expected: req.ObservedStatus, Actual: entry.Status}
	}

	if !CanTransitionLogbook(entry.Status, req.TargetStatus) {
		tx.Rollback()
		return nil, &InvalidTransitionError{RecordKind: models.RecordKindLogbookEntry, From: entry.Status, To: req.TargetStatus}
	}

	now := time.Now()
	oldStatus := entry.Status

	entry.Status = req.TargetStatus
	entry.ReviewedAt = &now
	entry.ReviewedBy = &req.ReviewerID
	if HasFeedback(req.Feedback) {
		feedback := strings.TrimSpace(req.Feedback)
		entry.Feedback = &feedback
	}

	if err := tx.Save(&entry).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("update logbook entry: %w", err)
	}

	if err := s.recordHistory(tx, models.RecordKindLogbookEntry, entry.EntryID, oldStatus, entry.Status, req.ReviewerID, entry.Feedback); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit review: %w", err)
	}

	return &entry, nil
}

// ResubmitLogbookEntry puts a needs_revision entry back to pending in place.
// The reviewed pair and feedback are cleared together; the prior decision
// stays visible in review_history.
func (s *ReviewService) ResubmitLogbookEntry(entryID, internID int) (*models.LogbookEntry, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var entry models.LogbookEntry
	if err := tx.Where("entry_id = ? AND delete_at IS NULL", entryID).First(&entry).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{RecordKind: models.RecordKindLogbookEntry, ID: entryID}
		}
		return nil, fmt.Errorf("load logbook entry: %w", err)
	}

	if entry.InternID != internID {
		tx.Rollback()
		return nil, &NotFoundError{RecordKind: models.RecordKindLogbookEntry, ID: entryID}
	}

	if !CanTransitionLogbook(entry.Status, LogbookStatusPending) {
		tx.Rollback()
		return nil, &InvalidTransitionError{RecordKind: models.RecordKindLogbookEntry, From: entry.Status, To: LogbookStatusPending}
	}

	oldStatus := entry.Status
	entry.Status = LogbookStatusPending
	entry.ReviewedAt = nil
	entry.ReviewedBy = nil
	entry.Feedback = nil

	if err := tx.Save(&entry).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("update logbook entry: %w", err)
	}

	if err := s.recordHistory(tx, models.RecordKindLogbookEntry, entry.EntryID, oldStatus, entry.Status, internID, nil); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit resubmission: %w", err)
	}

	return &entry, nil
}

// UpdateAssignmentStatus moves one (task, intern) assignment through its
// status machine. Terminal transitions stamp the reviewed pair; reopening
// clears it along with completed_at.
func (s *ReviewService) UpdateAssignmentStatus(req AssignmentStatusRequest) (*models.TaskAssignment, error) {
	if !IsAssignmentStatus(req.TargetStatus) {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", req.TargetStatus)}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var assignment models.TaskAssignment
	if err := tx.Where("task_id = ? AND intern_id = ? AND delete_at IS NULL", req.TaskID, req.InternID).First(&assignment).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{RecordKind: models.RecordKindTaskAssignment, ID: req.TaskID}
		}
		return nil, fmt.Errorf("load task assignment: %w", err)
	}

	if req.ObservedStatus != "" && assignment.Status != req.ObservedStatus {
		tx.Rollback()
		return nil, &ConflictError{RecordKind: models.RecordKindTaskAssignment, Expected: req.ObservedStatus, Actual: assignment.Status}
	}

	if !CanTransitionAssignment(assignment.Status, req.TargetStatus) {
		tx.Rollback()
		return nil, &InvalidTransitionError{RecordKind: models.RecordKindTaskAssignment, From: assignment.Status, To: req.TargetStatus}
	}

	now := time.Now()
	oldStatus := assignment.Status
	assignment.Status = req.TargetStatus
	if req.Notes != nil {
		assignment.InternNotes = req.Notes
	}

	switch req.TargetStatus {
	case AssignmentStatusInProgress:
		if assignment.StartedAt == nil {
			assignment.StartedAt = &now
		}
		// Leaving done (reopen) clears the completion record.
		assignment.CompletedAt = nil
		assignment.ReviewedAt = nil
		assignment.ReviewedBy = nil
	case AssignmentStatusDone:
		assignment.CompletedAt = &now
		assignment.ReviewedAt = &now
		assignment.ReviewedBy = &req.ActorID
	case AssignmentStatusCancelled:
		assignment.ReviewedAt = &now
		assignment.ReviewedBy = &req.ActorID
	case AssignmentStatusPending:
		assignment.ReviewedAt = nil
		assignment.ReviewedBy = nil
	}

	if err := tx.Save(&assignment).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("update task assignment: %w", err)
	}

	if err := s.recordHistory(tx, models.RecordKindTaskAssignment, assignment.AssignmentID, oldStatus, assignment.Status, req.ActorID, req.Notes); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit assignment update: %w", err)
	}

	return &assignment, nil
}

// ReopenAssignment moves a done assignment back to in_progress.
func (s *ReviewService) ReopenAssignment(taskID, internID, actorID int) (*models.TaskAssignment, error) {
	return s.UpdateAssignmentStatus(AssignmentStatusRequest{
		TaskID:         taskID,
		InternID:       internID,
		ObservedStatus: AssignmentStatusDone,
		TargetStatus:   AssignmentStatusInProgress,
		ActorID:        actorID,
	})
}

// PauseAssignment moves an in_progress assignment back to pending.
func (s *ReviewService) PauseAssignment(taskID, internID, actorID int) (*models.TaskAssignment, error) {
	return s.UpdateAssignmentStatus(AssignmentStatusRequest{
		TaskID:         taskID,
		InternID:       internID,
		ObservedStatus: AssignmentStatusInProgress,
		TargetStatus:   AssignmentStatusPending,
		ActorID:        actorID,
	})
}

// CreateAssignment adds one intern to a task. The (task_id, intern_id) pair
// is unique; assigning the same intern twice fails.
func (s *ReviewService) CreateAssignment(taskID, internID int) (*models.TaskAssignment, error) {
	var count int64
	if err := s.db.Model(&models.TaskAssignment{}).
		Where("task_id = ? AND intern_id = ? AND delete_at IS NULL", taskID, internID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check existing assignment: %w", err)
	}
	if count > 0 {
		return nil, &ValidationError{Field: "intern_id", Message: fmt.Sprintf("intern %d is already assigned to task %d", internID, taskID)}
	}

	assignment := models.TaskAssignment{
		TaskID:     taskID,
		InternID:   internID,
		Status:     AssignmentStatusPending,
		AssignedAt: time.Now(),
	}
	if err := s.db.Create(&assignment).Error; err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	return &assignment, nil
}

func (s *ReviewService) recordHistory(tx *gorm.DB, kind string, recordID int, oldStatus, newStatus string, changedBy int, feedback *string) error {
	history := models.ReviewHistory{
		RecordKind: kind,
		RecordID:   recordID,
		OldStatus:  &oldStatus,
		NewStatus:  newStatus,
		ChangedBy:  changedBy,
		Feedback:   feedback,
		CreatedAt:  time.Now(),
	}
	if err := tx.Create(&history).Error; err != nil {
		return fmt.Errorf("record status history: %w", err)
	}
	return nil
}
