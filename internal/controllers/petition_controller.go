package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sling/backend/internal/services"
)

// PetitionController is the player surface: file a petition, watch its
// progress, reply. Staff identities never leave here un-anonymized.
type PetitionController struct {
	petitions *services.PetitionService
}

func NewPetitionController(petitions *services.PetitionService) *PetitionController {
	return &PetitionController{petitions: petitions}
}

type SubmitPetitionRequest struct {
	Subject     string  `json:"subject" binding:"required"`
	ChatHistory string  `json:"chatHistory"`
	GameName    *string `json:"gameName"`
	Language    *string `json:"language"`
}

func (pc *PetitionController) Submit(c *gin.Context) {
	var req SubmitPetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid petition request",
			"errors":  err.Error(),
		})
		return
	}

	ip := c.ClientIP()
	event, err := pc.petitions.Submit(c.Request.Context(), accountName(c), services.SubmitPetitionInput{
		Subject:     req.Subject,
		ChatHistory: req.ChatHistory,
		GameName:    req.GameName,
		Language:    req.Language,
		SourceIP:    &ip,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"id": event.ID, "status": event.Status},
	})
}

func (pc *PetitionController) ListMine(c *gin.Context) {
	page := services.PageRequest{NeedCount: true}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset >= 0 {
		page.Offset = offset
	}
	if count, err := strconv.Atoi(c.DefaultQuery("count", "50")); err == nil {
		page.Count = count
	}

	views, total, err := pc.petitions.ListMine(c.Request.Context(), accountName(c), page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":     total,
			"petitions": views,
		},
	})
}

func (pc *PetitionController) View(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := pc.petitions.View(c.Request.Context(), id, accountName(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}

type PetitionReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

func (pc *PetitionController) Reply(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req PetitionReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid reply request",
		})
		return
	}

	msg, err := pc.petitions.Reply(c.Request.Context(), id, accountName(c), req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"id": msg.ID, "entered": msg.Entered},
	})
}
