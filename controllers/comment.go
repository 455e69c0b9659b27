package controllers

import (
	"net/http"
	"strconv"

	"internship-management-api/config"
	"internship-management-api/services"

	"github.com/gin-gonic/gin"
)

type CommentBody struct {
	Body string `json:"body" binding:"required"`
}

// AddComment posts a comment on a task. Comments never touch task or
// assignment status.
func AddComment(c *gin.Context) {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	authorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CommentBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	svc := services.NewCollaborationService(config.DB, nil)
	comment, err := svc.AddComment(taskID, authorID, req.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "comment": comment})
}

// GetComments lists a task's comments oldest first.
func GetComments(c *gin.Context) {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	svc := services.NewCollaborationService(config.DB, nil)
	comments, err := svc.ListComments(taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"comments": comments,
		"total":    len(comments),
	})
}

// EditComment replaces a comment's body. created_at stays as it was.
func EditComment(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("comment_id"))
	if err != nil || commentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	var req CommentBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	svc := services.NewCollaborationService(config.DB, nil)
	comment, err := svc.EditComment(commentID, req.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "comment": comment})
}

// DeleteComment hard-deletes a comment. Deleting an id twice returns 404
// the second time.
func DeleteComment(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("comment_id"))
	if err != nil || commentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	svc := services.NewCollaborationService(config.DB, nil)
	if err := svc.DeleteComment(commentID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment deleted"})
}
