package models

import "time"

// Task is an admin-created unit of work assigned to one or more interns.
// The task's own status is set directly by an admin; it is never derived
// from the per-intern assignment statuses.
type Task struct {
	TaskID      int        `gorm:"primaryKey;column:task_id" json:"task_id"`
	Title       string     `gorm:"column:title" json:"title"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	Status      string     `gorm:"column:status" json:"status"`
	Priority    *string    `gorm:"column:priority" json:"priority,omitempty"`
	DueDate     *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	CreatedBy   int        `gorm:"column:created_by" json:"created_by"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Creator     *User            `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
	Comments    []TaskComment    `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
	Attachments []TaskAttachment `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
}

// TaskAssignment tracks one intern's progress on one task. The
// (task_id, intern_id) pair is unique; each assignment moves through its
// own status independently of the task and of the other assignments.
type TaskAssignment struct {
	AssignmentID int        `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	TaskID       int        `gorm:"column:task_id;uniqueIndex:idx_task_intern" json:"task_id"`
	InternID     int        `gorm:"column:intern_id;uniqueIndex:idx_task_intern" json:"intern_id"`
	Status       string     `gorm:"column:status" json:"status"`
	InternNotes  *string    `gorm:"column:intern_notes" json:"intern_notes,omitempty"`
	AssignedAt   time.Time  `gorm:"column:assigned_at" json:"assigned_at"`
	StartedAt    *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt  *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	ReviewedAt   *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy   *int       `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Task     *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Intern   *User `gorm:"foreignKey:InternID" json:"intern,omitempty"`
	Reviewer *User `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

// TableName overrides
func (Task) TableName() string {
	return "tasks"
}

func (TaskAssignment) TableName() string {
	return "task_assignments"
}
