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

// Task statuses set directly by an admin. Deliberately separate from the
// per-intern assignment statuses; completion of every assignment does not
// move the task, and vice versa.
var taskStatuses = map[string]bool{
	"pending":     true,
	"in_progress": true,
	"done":        true,
	"cancelled":   true,
}

type TaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	InternIDs   []int   `json:"intern_ids"`
}

// CreateTask creates a task and one pending assignment per listed intern.
func CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := models.Task{
		Title:       utils.SanitizeInput(req.Title),
		Description: req.Description,
		Status:      "pending",
		Priority:    req.Priority,
		CreatedBy:   userID,
	}

	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD"})
			return
		}
		task.DueDate = &due
	}

	if err := config.DB.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	svc := services.NewReviewService(config.DB)
	for _, internID := range req.InternIDs {
		if _, err := svc.CreateAssignment(task.TaskID, internID); err != nil {
			respondServiceError(c, err)
			return
		}
		services.NotifyTaskAssigned(&task, internID)
	}

	if err := config.DB.Preload("Assignments").Preload("Assignments.Intern").
		Where("task_id = ?", task.TaskID).First(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "task": task})
}

// GetTasks lists tasks. Interns see only tasks they are assigned to.
func GetTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roleID, _ := c.Get("roleID")

	query := config.DB.Preload("Creator").Preload("Assignments").
		Where("tasks.delete_at IS NULL")

	if roleID == models.RoleIntern {
		query = query.
			Joins("JOIN task_assignments ON task_assignments.task_id = tasks.task_id").
			Where("task_assignments.intern_id = ? AND task_assignments.delete_at IS NULL", userID)
	}

	if status := c.Query("status"); status != "" {
		if !taskStatuses[status] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("tasks.status = ?", status)
	}

	var tasks []models.Task
	if err := query.Order("tasks.create_at DESC").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   tasks,
		"total":   len(tasks),
	})
}

// GetTask returns the full task aggregate: assignments, comments and
// attachment metadata, the unit the console re-fetches after mutations.
func GetTask(c *gin.Context) {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var task models.Task
	if err := config.DB.
		Preload("Creator").
		Preload("Assignments").
		Preload("Assignments.Intern").
		Preload("Comments").
		Preload("Comments.Author").
		Preload("Attachments").
		Preload("Attachments.Uploader").
		Where("task_id = ? AND delete_at IS NULL", taskID).
		First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

// UpdateTask edits task fields. The status here is the admin-owned task
// status, applied directly with no transition table.
func UpdateTask(c *gin.Context) {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var task models.Task
	if err := config.DB.Where("task_id = ? AND delete_at IS NULL", taskID).First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = utils.SanitizeInput(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		if !taskStatuses[*req.Status] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task status"})
			return
		}
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD"})
			return
		}
		updates["due_date"] = due
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&task).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// DeleteTask deletes the task and everything it owns: attachments are
// released from the object store and their metadata removed first, then the
// task and its assignments are soft-deleted and comments hard-deleted. A
// store failure aborts with the task fully intact.
func DeleteTask(c *gin.Context) {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var task models.Task
	if err := config.DB.Where("task_id = ? AND delete_at IS NULL", taskID).First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	collab := services.NewCollaborationService(config.DB, attachmentStore)
	if err := collab.DeleteTaskAttachments(c.Request.Context(), taskID); err != nil {
		respondServiceError(c, err)
		return
	}

	now := time.Now()
	tx := config.DB.Begin()
	if err := tx.Model(&models.Task{}).Where("task_id = ?", taskID).Update("delete_at", now).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	if err := tx.Model(&models.TaskAssignment{}).Where("task_id = ?", taskID).Update("delete_at", now).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete assignments"})
		return
	}
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskComment{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comments"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task deleted"})
}

// AssignIntern adds one more intern to an existing task.
func AssignIntern(c *gin.Context) {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req struct {
		InternID int `json:"intern_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var task models.Task
	if err := config.DB.Where("task_id = ? AND delete_at IS NULL", taskID).First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	svc := services.NewReviewService(config.DB)
	assignment, err := svc.CreateAssignment(taskID, req.InternID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	services.NotifyTaskAssigned(&task, req.InternID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "assignment": assignment})
}
