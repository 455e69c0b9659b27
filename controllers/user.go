package controllers

import (
	"net/http"
	"strconv"

	"internship-management-api/config"
	"internship-management-api/models"
	"internship-management-api/utils"

	"github.com/gin-gonic/gin"
)

// GetUsers lists users (admin only). Supports role and specialty filters.
func GetUsers(c *gin.Context) {
	query := config.DB.Preload("Role").Preload("Specialty").Preload("Supervisor").
		Where("delete_at IS NULL")

	if roleParam := c.Query("role_id"); roleParam != "" {
		roleID, err := strconv.Atoi(roleParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role_id"})
			return
		}
		query = query.Where("role_id = ?", roleID)
	}
	if specialtyParam := c.Query("specialty_id"); specialtyParam != "" {
		specialtyID, err := strconv.Atoi(specialtyParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid specialty_id"})
			return
		}
		query = query.Where("specialty_id = ?", specialtyID)
	}

	var users []models.User
	if err := query.Order("user_lname ASC, user_fname ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": users, "total": len(users)})
}

type UserRequest struct {
	UserFname    string  `json:"user_fname" binding:"required"`
	UserLname    string  `json:"user_lname" binding:"required"`
	Email        string  `json:"email" binding:"required"`
	Password     string  `json:"password"`
	RoleID       int     `json:"role_id" binding:"required"`
	SpecialtyID  *int    `json:"specialty_id"`
	SupervisorID *int    `json:"supervisor_id"`
	Phone        *string `json:"phone"`
}

// CreateUser registers a user (admin only).
func CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		UserFname:    utils.SanitizeInput(req.UserFname),
		UserLname:    utils.SanitizeInput(req.UserLname),
		Email:        req.Email,
		Password:     hashed,
		RoleID:       req.RoleID,
		SpecialtyID:  req.SpecialtyID,
		SupervisorID: req.SupervisorID,
		Phone:        req.Phone,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

// UpdateUser edits a user (admin only). Password changes go through
// ChangePassword, not here.
func UpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		UserFname    *string `json:"user_fname"`
		UserLname    *string `json:"user_lname"`
		RoleID       *int    `json:"role_id"`
		SpecialtyID  *int    `json:"specialty_id"`
		SupervisorID *int    `json:"supervisor_id"`
		Phone        *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.UserFname != nil {
		updates["user_fname"] = utils.SanitizeInput(*req.UserFname)
	}
	if req.UserLname != nil {
		updates["user_lname"] = utils.SanitizeInput(*req.UserLname)
	}
	if req.RoleID != nil {
		updates["role_id"] = *req.RoleID
	}
	if req.SpecialtyID != nil {
		updates["specialty_id"] = *req.SpecialtyID
	}
	if req.SupervisorID != nil {
		updates["supervisor_id"] = *req.SupervisorID
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// DeleteUser soft-deletes a user (admin only).
func DeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	result := config.DB.Model(&models.User{}).
		Where("user_id = ? AND delete_at IS NULL", userID).
		Update("delete_at", config.DB.NowFunc())
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}
