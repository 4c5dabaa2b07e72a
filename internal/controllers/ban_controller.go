package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sling/backend/internal/models"
	"github.com/sling/backend/internal/services"
)

type BanController struct {
	bans *services.BanService
}

func NewBanController(bans *services.BanService) *BanController {
	return &BanController{bans: bans}
}

type IssueBanRequest struct {
	AccountName   string         `json:"accountName" binding:"required"`
	Kind          models.BanKind `json:"kind" binding:"required"`
	Reason        string         `json:"reason" binding:"required"`
	DurationHours int            `json:"durationHours"`
}

func (bc *BanController) Issue(c *gin.Context) {
	var req IssueBanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid ban request",
			"errors":  err.Error(),
		})
		return
	}

	ban, err := bc.bans.IssueBan(c.Request.Context(), services.IssueBanInput{
		AccountName: req.AccountName,
		Kind:        req.Kind,
		Reason:      req.Reason,
		IssuedBy:    accountName(c),
		Duration:    time.Duration(req.DurationHours) * time.Hour,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    ban,
	})
}

func (bc *BanController) Lift(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := bc.bans.Lift(c.Request.Context(), id, accountName(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ban lifted",
	})
}

func (bc *BanController) History(c *gin.Context) {
	account := c.Param("account")
	if account == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Account name required",
		})
		return
	}

	bans, err := bc.bans.History(c.Request.Context(), account)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bans,
	})
}

func (bc *BanController) Status(c *gin.Context) {
	account := c.Param("account")
	banned, err := bc.bans.IsBanned(c.Request.Context(), account)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"account": account, "banned": banned},
	})
}
