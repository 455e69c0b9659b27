package models

import "time"

// LogbookEntry is a daily work record submitted by an intern and reviewed by
// their supervisor. Reviewed entries are never hard-deleted; they form the
// audit trail of the internship.
type LogbookEntry struct {
	EntryID        int        `gorm:"primaryKey;column:entry_id" json:"entry_id"`
	InternID       int        `gorm:"column:intern_id" json:"intern_id"`
	EntryDate      time.Time  `gorm:"column:entry_date" json:"entry_date"`
	Activities     string     `gorm:"column:activities" json:"activities"`
	TasksCompleted *string    `gorm:"column:tasks_completed" json:"tasks_completed,omitempty"`
	HoursWorked    float64    `gorm:"column:hours_worked" json:"hours_worked"`
	Status         string     `gorm:"column:status" json:"status"`
	SubmittedAt    time.Time  `gorm:"column:submitted_at" json:"submitted_at"`
	ReviewedAt     *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy     *int       `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	Feedback       *string    `gorm:"column:feedback" json:"feedback,omitempty"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Intern   *User `gorm:"foreignKey:InternID" json:"intern,omitempty"`
	Reviewer *User `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

func (LogbookEntry) TableName() string {
	return "logbook_entries"
}

// IsReviewed reports whether the entry has received a review decision.
// reviewed_at and reviewed_by are always set together.
func (e *LogbookEntry) IsReviewed() bool {
	return e.ReviewedAt != nil && e.ReviewedBy != nil
}
