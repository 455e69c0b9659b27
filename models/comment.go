package models

import "time"

// TaskComment belongs to exactly one task. Comments carry no workflow state;
// editing overwrites the body and leaves created_at untouched.
type TaskComment struct {
	CommentID int        `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	TaskID    int        `gorm:"column:task_id" json:"task_id"`
	AuthorID  int        `gorm:"column:author_id" json:"author_id"`
	Body      string     `gorm:"column:body" json:"body"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (TaskComment) TableName() string {
	return "task_comments"
}
