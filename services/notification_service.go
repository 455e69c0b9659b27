package services

import (
	"fmt"
	"log"

	"internship-management-api/config"
	"internship-management-api/models"
)

// NotifyReviewDecision writes an in-app notification for the intern and
// sends a best-effort email. Mail failures are logged, never surfaced; the
// review itself has already committed.
func NotifyReviewDecision(entry *models.LogbookEntry) {
	title := "Logbook entry approved"
	notifType := "success"
	if entry.Status == LogbookStatusNeedsRevision {
		title = "Logbook entry needs revision"
		notifType = "warning"
	}

	message := fmt.Sprintf("Your logbook entry for %s was reviewed.", entry.EntryDate.Format("2006-01-02"))
	if entry.Feedback != nil && *entry.Feedback != "" {
		message = fmt.Sprintf("%s Feedback: %s", message, *entry.Feedback)
	}

	kind := models.RecordKindLogbookEntry
	relatedID := uint(entry.EntryID)
	notification := models.Notification{
		UserID:      uint(entry.InternID),
		Title:       title,
		Message:     message,
		Type:        notifType,
		RelatedKind: &kind,
		RelatedID:   &relatedID,
	}
	if err := config.DB.Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to create notification for entry %d: %v", entry.EntryID, err)
	}

	var intern models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", entry.InternID).First(&intern).Error; err != nil {
		return
	}
	body := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", intern.UserFname, message)
	if err := config.SendMail([]string{intern.Email}, title, body); err != nil {
		log.Printf("Warning: failed to send review email to %s: %v", intern.Email, err)
	}
}

// NotifyTaskAssigned writes an in-app notification for a newly assigned
// intern.
func NotifyTaskAssigned(task *models.Task, internID int) {
	kind := models.RecordKindTaskAssignment
	relatedID := uint(task.TaskID)
	notification := models.Notification{
		UserID:      uint(internID),
		Title:       "New task assigned",
		Message:     fmt.Sprintf("You have been assigned to task: %s", task.Title),
		Type:        "info",
		RelatedKind: &kind,
		RelatedID:   &relatedID,
	}
	if err := config.DB.Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to create assignment notification for intern %d: %v", internID, err)
	}
}
