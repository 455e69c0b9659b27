package models

import "time"

// Record kinds referenced by review history rows.
const (
	RecordKindLogbookEntry   = "logbook_entry"
	RecordKindTaskAssignment = "task_assignment"
)

// ReviewHistory is the audit log of status transitions. One row is written
// for every successful transition of a logbook entry or task assignment,
// which is what makes in-place resubmission safe to use.
type ReviewHistory struct {
	HistoryID  int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	RecordKind string    `gorm:"column:record_kind" json:"record_kind"`
	RecordID   int       `gorm:"column:record_id" json:"record_id"`
	OldStatus  *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus  string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy  int       `gorm:"column:changed_by" json:"changed_by"`
	Feedback   *string   `gorm:"column:feedback" json:"feedback,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ReviewHistory) TableName() string {
	return "review_history"
}
