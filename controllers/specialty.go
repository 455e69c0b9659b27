package controllers

import (
	"net/http"
	"strconv"

	"internship-management-api/config"
	"internship-management-api/models"
	"internship-management-api/utils"

	"github.com/gin-gonic/gin"
)

// GetSpecialties lists active specialties.
func GetSpecialties(c *gin.Context) {
	var specialties []models.Specialty
	if err := config.DB.Where("delete_at IS NULL").Order("specialty_name ASC").Find(&specialties).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch specialties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "specialties": specialties, "total": len(specialties)})
}

type SpecialtyRequest struct {
	SpecialtyName string  `json:"specialty_name" binding:"required"`
	Description   *string `json:"description"`
}

// CreateSpecialty adds a specialty (admin only).
func CreateSpecialty(c *gin.Context) {
	var req SpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	specialty := models.Specialty{
		SpecialtyName: utils.SanitizeInput(req.SpecialtyName),
		Description:   req.Description,
	}
	if err := config.DB.Create(&specialty).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create specialty"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "specialty": specialty})
}

// UpdateSpecialty edits a specialty (admin only).
func UpdateSpecialty(c *gin.Context) {
	specialtyID, err := strconv.Atoi(c.Param("id"))
	if err != nil || specialtyID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid specialty ID"})
		return
	}

	var req SpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var specialty models.Specialty
	if err := config.DB.Where("specialty_id = ? AND delete_at IS NULL", specialtyID).First(&specialty).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Specialty not found"})
		return
	}

	specialty.SpecialtyName = utils.SanitizeInput(req.SpecialtyName)
	specialty.Description = req.Description
	if err := config.DB.Save(&specialty).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update specialty"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "specialty": specialty})
}

// DeleteSpecialty soft-deletes a specialty (admin only).
func DeleteSpecialty(c *gin.Context) {
	specialtyID, err := strconv.Atoi(c.Param("id"))
	if err != nil || specialtyID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid specialty ID"})
		return
	}

	result := config.DB.Model(&models.Specialty{}).
		Where("specialty_id = ? AND delete_at IS NULL", specialtyID).
		Update("delete_at", config.DB.NowFunc())
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete specialty"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Specialty not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Specialty deleted"})
}
