package controllers

import (
	"io"
	"net/http"
	"strconv"

	"internship-management-api/config"
	"internship-management-api/services"
	"internship-management-api/storage"

	"github.com/gin-gonic/gin"
)

// attachmentStore is wired once at startup; attachment bytes never live in
// this process or the database.
var attachmentStore storage.ObjectStore

// InitAttachmentStore sets the object store used by attachment handlers.
func InitAttachmentStore(store storage.ObjectStore) {
	attachmentStore = store
}

const maxAttachmentSize = 25 << 20 // 25 MB

// UploadAttachment accepts a multipart upload for a task. Bytes go to the
// object store before any metadata row is written.
func UploadAttachment(c *gin.Context) {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	uploaderID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 25MB limit"})
		return
	}

	var description *string
	if d := c.PostForm("description"); d != "" {
		description = &d
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	svc := services.NewCollaborationService(config.DB, attachmentStore)
	attachment, err := svc.UploadAttachment(c.Request.Context(), taskID, uploaderID, file, fileHeader.Filename, fileHeader.Size, contentType, description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "attachment": attachment})
}

// GetAttachments lists a task's attachment metadata.
func GetAttachments(c *gin.Context) {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	svc := services.NewCollaborationService(config.DB, attachmentStore)
	attachments, err := svc.ListAttachments(taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"attachments": attachments,
		"total":       len(attachments),
	})
}

// DownloadAttachment streams the stored bytes back with the original name.
func DownloadAttachment(c *gin.Context) {
	attachmentID, err := strconv.Atoi(c.Param("attachment_id"))
	if err != nil || attachmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment ID"})
		return
	}

	svc := services.NewCollaborationService(config.DB, attachmentStore)
	rc, attachment, err := svc.OpenAttachment(c.Request.Context(), attachmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+attachment.OriginalName+`"`)
	c.Header("Content-Type", attachment.MimeType)
	c.Header("Content-Length", strconv.FormatInt(attachment.FileSize, 10))
	if _, err := io.Copy(c.Writer, rc); err != nil {
		// Headers are out; nothing left to do but log through gin's recovery.
		return
	}
}

// DeleteAttachment removes the bytes and then the metadata. A store failure
// leaves the metadata row in place and reports 502.
func DeleteAttachment(c *gin.Context) {
	attachmentID, err := strconv.Atoi(c.Param("attachment_id"))
	if err != nil || attachmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment ID"})
		return
	}

	svc := services.NewCollaborationService(config.DB, attachmentStore)
	if err := svc.DeleteAttachment(c.Request.Context(), attachmentID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Attachment deleted"})
}
