package models

import "time"

// TaskAttachment stores metadata for a file attached to a task. The bytes
// themselves live in the object store under StoredName; a metadata row exists
// only while the stored object does.
type TaskAttachment struct {
	AttachmentID int        `gorm:"primaryKey;column:attachment_id" json:"attachment_id"`
	TaskID       int        `gorm:"column:task_id" json:"task_id"`
	OriginalName string     `gorm:"column:original_name" json:"original_name"`
	StoredName   string     `gorm:"column:stored_name" json:"-"`
	FileSize     int64      `gorm:"column:file_size" json:"file_size"`
	MimeType     string     `gorm:"column:mime_type" json:"mime_type"`
	Description  *string    `gorm:"column:description" json:"description,omitempty"`
	UploadedBy   int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time  `gorm:"column:uploaded_at" json:"uploaded_at"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`

	Uploader *User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

func (TaskAttachment) TableName() string {
	return "task_attachments"
}

func (a *TaskAttachment) GetFileSizeInMB() float64 {
	return float64(a.FileSize) / (1024 * 1024)
}
