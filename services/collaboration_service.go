package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"internship-management-api/models"
	"internship-management-api/storage"

	"gorm.io/gorm"
)

// CollaborationService handles comments and attachments on a task. Neither
// touches the task's status nor any assignment's status.
type CollaborationService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

func NewCollaborationService(db *gorm.DB, store storage.ObjectStore) *CollaborationService {
	return &CollaborationService{db: db, store: store}
}

func (s *CollaborationService) taskExists(taskID int) error {
	var count int64
	if err := s.db.Model(&models.Task{}).
		Where("task_id = ? AND delete_at IS NULL", taskID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check task: %w", err)
	}
	if count == 0 {
		return &NotFoundError{RecordKind: "task", ID: taskID}
	}
	return nil
}

// AddComment creates a comment on a task. Empty or whitespace-only bodies
// are rejected before anything is written.
func (s *CollaborationService) AddComment(taskID, authorID int, body string) (*models.TaskComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, &ValidationError{Field: "body", Message: "comment body cannot be empty"}
	}

	if err := s.taskExists(taskID); err != nil {
		return nil, err
	}

	comment := models.TaskComment{
		TaskID:    taskID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

// EditComment overwrites the body. created_at is never touched.
func (s *CollaborationService) EditComment(commentID int, body string) (*models.TaskComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, &ValidationError{Field: "body", Message: "comment body cannot be empty"}
	}

	var comment models.TaskComment
	if err := s.db.Where("comment_id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{RecordKind: "comment", ID: commentID}
		}
		return nil, fmt.Errorf("load comment: %w", err)
	}

	comment.Body = body
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &comment, nil
}

// DeleteComment hard-deletes a comment. A second delete of the same id
// fails with NotFoundError; the operation is not idempotent.
func (s *CollaborationService) DeleteComment(commentID int) error {
	result := s.db.Where("comment_id = ?", commentID).Delete(&models.TaskComment{})
	if result.Error != nil {
		return fmt.Errorf("delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{RecordKind: "comment", ID: commentID}
	}
	return nil
}

// UploadAttachment stores the bytes first and persists metadata only after
// the store accepts them. A rejected upload leaves no metadata row behind.
func (s *CollaborationService) UploadAttachment(ctx context.Context, taskID, uploaderID int, r io.Reader, originalName string, size int64, contentType string, description *string) (*models.TaskAttachment, error) {
	if strings.TrimSpace(originalName) == "" {
		return nil, &ValidationError{Field: "file", Message: "file name is required"}
	}

	if err := s.taskExists(taskID); err != nil {
		return nil, err
	}

	objectName := storage.ObjectName(originalName)
	if err := s.store.Put(ctx, objectName, r, size, contentType); err != nil {
		return nil, err
	}

	attachment := models.TaskAttachment{
		TaskID:       taskID,
		OriginalName: originalName,
		StoredName:   objectName,
		FileSize:     size,
		MimeType:     contentType,
		Description:  description,
		UploadedBy:   uploaderID,
		UploadedAt:   time.Now(),
	}
	if err := s.db.Create(&attachment).Error; err != nil {
		// The bytes made it in but the row did not; release them so the
		// store and the table stay in agreement.
		if removeErr := s.store.Remove(ctx, objectName); removeErr != nil {
			return nil, fmt.Errorf("persist attachment metadata: %w (orphaned object %s: %v)", err, objectName, removeErr)
		}
		return nil, fmt.Errorf("persist attachment metadata: %w", err)
	}
	return &attachment, nil
}

// OpenAttachment returns a reader over the stored bytes plus the metadata
// row, for download streaming.
func (s *CollaborationService) OpenAttachment(ctx context.Context, attachmentID int) (io.ReadCloser, *models.TaskAttachment, error) {
	var attachment models.TaskAttachment
	if err := s.db.Where("attachment_id = ?", attachmentID).First(&attachment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, &NotFoundError{RecordKind: "attachment", ID: attachmentID}
		}
		return nil, nil, fmt.Errorf("load attachment: %w", err)
	}

	rc, err := s.store.Get(ctx, attachment.StoredName)
	if err != nil {
		return nil, nil, err
	}
	return rc, &attachment, nil
}

// DeleteAttachment removes the bytes first and the metadata row only after
// the store confirms. If the store delete fails the row stays, so the
// listing never claims a file is gone while its bytes remain.
func (s *CollaborationService) DeleteAttachment(ctx context.Context, attachmentID int) error {
	var attachment models.TaskAttachment
	if err := s.db.Where("attachment_id = ?", attachmentID).First(&attachment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{RecordKind: "attachment", ID: attachmentID}
		}
		return fmt.Errorf("load attachment: %w", err)
	}

	if err := s.store.Remove(ctx, attachment.StoredName); err != nil {
		return err
	}

	if err := s.db.Where("attachment_id = ?", attachmentID).Delete(&models.TaskAttachment{}).Error; err != nil {
		return fmt.Errorf("delete attachment metadata: %w", err)
	}
	return nil
}

// DeleteTaskAttachments removes every attachment a task owns, one at a
// time with the same bytes-first ordering as DeleteAttachment. A store
// failure stops the sweep; the remaining metadata rows stay so nothing is
// listed as gone while its bytes survive.
func (s *CollaborationService) DeleteTaskAttachments(ctx context.Context, taskID int) error {
	var attachments []models.TaskAttachment
	if err := s.db.Where("task_id = ?", taskID).Find(&attachments).Error; err != nil {
		return fmt.Errorf("list attachments: %w", err)
	}

	for _, attachment := range attachments {
		if err := s.store.Remove(ctx, attachment.StoredName); err != nil {
			return err
		}
		if err := s.db.Where("attachment_id = ?", attachment.AttachmentID).Delete(&models.TaskAttachment{}).Error; err != nil {
			return fmt.Errorf("delete attachment metadata: %w", err)
		}
	}
	return nil
}

// ListComments returns a task's comments oldest first.
func (s *CollaborationService) ListComments(taskID int) ([]models.TaskComment, error) {
	var comments []models.TaskComment
	if err := s.db.Preload("Author").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// ListAttachments returns a task's attachment metadata newest first.
func (s *CollaborationService) ListAttachments(taskID int) ([]models.TaskAttachment, error) {
	var attachments []models.TaskAttachment
	if err := s.db.Preload("Uploader").
		Where("task_id = ?", taskID).
		Order("uploaded_at DESC").
		Find(&attachments).Error; err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	return attachments, nil
}
