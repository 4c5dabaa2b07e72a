package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sling/backend/internal/models"
)

type UserController struct {
	db *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

func (uc *UserController) GetCurrentUser(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Unauthorized",
		})
		return
	}

	var user models.User
	if err := uc.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "User not found",
		})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// ListAgents returns all users with the support privilege, for the owner
// filter dropdown in the console.
func (uc *UserController) ListAgents(c *gin.Context) {
	var agents []models.User
	err := uc.db.Where("role IN ?", []models.UserRole{
		models.RoleSupport, models.RoleLead, models.RoleAdmin,
	}).Order("account_name ASC").Find(&agents).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch agents",
		})
		return
	}

	for i := range agents {
		agents[i].Password = ""
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    agents,
	})
}

type UpdateRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required"`
}

// UpdateRole promotes or demotes a user. Admin only.
func (uc *UserController) UpdateRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid role request",
		})
		return
	}

	switch req.Role {
	case models.RolePlayer, models.RoleSupport, models.RoleLead, models.RoleAdmin:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Unknown role",
		})
		return
	}

	var user models.User
	if err := uc.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "User not found",
		})
		return
	}

	user.Role = req.Role
	if err := uc.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to update role",
		})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}
