package controllers

import (
	"net/http"
	"strconv"

	"internship-management-api/config"
	"internship-management-api/models"
	"internship-management-api/services"

	"github.com/gin-gonic/gin"
)

func assignmentParams(c *gin.Context) (int, int, bool) {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return 0, 0, false
	}
	internID, err := strconv.Atoi(c.Param("intern_id"))
	if err != nil || internID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid intern ID"})
		return 0, 0, false
	}
	return taskID, internID, true
}

type AssignmentStatusBody struct {
	Status         string  `json:"status" binding:"required"`
	Notes          *string `json:"notes"`
	ObservedStatus string  `json:"observed_status"`
}

// UpdateAssignmentStatus changes one intern's status on one task. Interns
// may only move their own assignment.
func UpdateAssignmentStatus(c *gin.Context) {
	taskID, internID, ok := assignmentParams(c)
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	roleID, _ := c.Get("roleID")
	if roleID == models.RoleIntern && internID != actorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your assignment"})
		return
	}

	var req AssignmentStatusBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	svc := services.NewReviewService(config.DB)
	assignment, err := svc.UpdateAssignmentStatus(services.AssignmentStatusRequest{
		TaskID:         taskID,
		InternID:       internID,
		ObservedStatus: req.ObservedStatus,
		TargetStatus:   req.Status,
		Notes:          req.Notes,
		ActorID:        actorID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": assignment})
}

// ReopenAssignment moves a done assignment back to in_progress.
func ReopenAssignment(c *gin.Context) {
	taskID, internID, ok := assignmentParams(c)
	if !ok {
		return
	}
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	svc := services.NewReviewService(config.DB)
	assignment, err := svc.ReopenAssignment(taskID, internID, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": assignment})
}

// PauseAssignment moves an in_progress assignment back to pending.
func PauseAssignment(c *gin.Context) {
	taskID, internID, ok := assignmentParams(c)
	if !ok {
		return
	}
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	roleID, _ := c.Get("roleID")
	if roleID == models.RoleIntern && internID != actorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your assignment"})
		return
	}

	svc := services.NewReviewService(config.DB)
	assignment, err := svc.PauseAssignment(taskID, internID, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": assignment})
}

// GetMyAssignments lists the authenticated intern's assignments across all
// tasks, with the owning task preloaded.
func GetMyAssignments(c *gin.Context) {
	internID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Task").
		Where("intern_id = ? AND delete_at IS NULL", internID)

	if status := c.Query("status"); status != "" {
		if !services.IsAssignmentStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", status)
	}

	var assignments []models.TaskAssignment
	if err := query.Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assignments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}
