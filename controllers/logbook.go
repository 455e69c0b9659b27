package controllers

import (
	"net/http"
	"strconv"
	"time"

	"internship-management-api/config"
	"internship-management-api/models"
	"internship-management-api/services"
	"internship-management-api/utils"

	"github.com/gin-gonic/gin"
)

type LogbookEntryRequest struct {
	EntryDate      string  `json:"entry_date" binding:"required"`
	Activities     string  `json:"activities" binding:"required"`
	TasksCompleted *string `json:"tasks_completed"`
	HoursWorked    float64 `json:"hours_worked" binding:"required,gt=0"`
}

// CreateLogbookEntry lets an intern submit a daily entry. submitted_at is
// set here and never overwritten afterwards.
func CreateLogbookEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req LogbookEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entryDate, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entry_date must be YYYY-MM-DD"})
		return
	}

	entry := models.LogbookEntry{
		InternID:       userID,
		EntryDate:      entryDate,
		Activities:     utils.SanitizeInput(req.Activities),
		TasksCompleted: req.TasksCompleted,
		HoursWorked:    req.HoursWorked,
		Status:         services.LogbookStatusPending,
		SubmittedAt:    time.Now(),
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create logbook entry"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "entry": entry})
}

// GetLogbookEntries lists entries. Interns see their own; supervisors and
// admins can filter by intern and status.
func GetLogbookEntries(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roleID, _ := c.Get("roleID")

	query := config.DB.Preload("Intern").Preload("Reviewer").
		Where("delete_at IS NULL")

	if roleID == models.RoleIntern {
		query = query.Where("intern_id = ?", userID)
	} else if internParam := c.Query("intern_id"); internParam != "" {
		internID, err := strconv.Atoi(internParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid intern_id"})
			return
		}
		query = query.Where("intern_id = ?", internID)
	}

	if status := c.Query("status"); status != "" {
		if !services.IsLogbookStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", status)
	}

	var entries []models.LogbookEntry
	if err := query.Order("entry_date DESC, submitted_at DESC").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logbook entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"entries": entries,
		"total":   len(entries),
	})
}

// GetLogbookEntry returns one entry with intern and reviewer preloaded.
func GetLogbookEntry(c *gin.Context) {
	entryID, err := strconv.Atoi(c.Param("id"))
	if err != nil || entryID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	var entry models.LogbookEntry
	if err := config.DB.Preload("Intern").Preload("Reviewer").
		Where("entry_id = ? AND delete_at IS NULL", entryID).
		First(&entry).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Logbook entry not found"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roleID, _ := c.Get("roleID")
	if roleID == models.RoleIntern && entry.InternID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your logbook entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "entry": entry})
}

type ReviewLogbookRequest struct {
	Status         string `json:"status" binding:"required"`
	Feedback       string `json:"feedback"`
	ObservedStatus string `json:"observed_status"`
}

// ReviewLogbookEntry applies a supervisor decision (approve or request
// revision) through the review service.
func ReviewLogbookEntry(c *gin.Context) {
	entryID, err := strconv.Atoi(c.Param("id"))
	if err != nil || entryID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	var req ReviewLogbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	svc := services.NewReviewService(config.DB)
	entry, err := svc.SubmitReview(services.ReviewRequest{
		EntryID:        entryID,
		ObservedStatus: req.ObservedStatus,
		TargetStatus:   req.Status,
		Feedback:       req.Feedback,
		ReviewerID:     reviewerID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	services.NotifyReviewDecision(entry)

	c.JSON(http.StatusOK, gin.H{"success": true, "entry": entry})
}

// ResubmitLogbookEntry resets a needs_revision entry back to pending so the
// intern's corrections go through review again.
func ResubmitLogbookEntry(c *gin.Context) {
	entryID, err := strconv.Atoi(c.Param("id"))
	if err != nil || entryID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	internID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Activities     *string  `json:"activities"`
		TasksCompleted *string  `json:"tasks_completed"`
		HoursWorked    *float64 `json:"hours_worked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	svc := services.NewReviewService(config.DB)
	entry, err := svc.ResubmitLogbookEntry(entryID, internID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Content updates ride along with the resubmission when provided.
	updates := map[string]interface{}{}
	if req.Activities != nil {
		updates["activities"] = utils.SanitizeInput(*req.Activities)
	}
	if req.TasksCompleted != nil {
		updates["tasks_completed"] = *req.TasksCompleted
	}
	if req.HoursWorked != nil && *req.HoursWorked > 0 {
		updates["hours_worked"] = *req.HoursWorked
	}
	if len(updates) > 0 {
		if err := config.DB.Model(&models.LogbookEntry{}).
			Where("entry_id = ?", entry.EntryID).
			Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update entry content"})
			return
		}
		if err := config.DB.Where("entry_id = ?", entry.EntryID).First(entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload entry"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "entry": entry})
}
