package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sling/backend/internal/models"
)

type FAQController struct {
	db *gorm.DB
}

func NewFAQController(db *gorm.DB) *FAQController {
	return &FAQController{db: db}
}

// List returns the FAQ entries for a language, ordered by position.
func (fc *FAQController) List(c *gin.Context) {
	language := c.DefaultQuery("language", "en")

	var faqs []models.FAQ
	err := fc.db.Where("language = ?", language).
		Order("position ASC").Find(&faqs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to fetch FAQs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    faqs,
	})
}

type UpsertFAQRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Language string `json:"language"`
	Position int    `json:"position"`
}

func (fc *FAQController) Create(c *gin.Context) {
	var req UpsertFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid FAQ request",
			"errors":  err.Error(),
		})
		return
	}

	if req.Language == "" {
		req.Language = "en"
	}

	faq := models.FAQ{
		Question: req.Question,
		Answer:   req.Answer,
		Language: req.Language,
		Position: req.Position,
	}

	if err := fc.db.Create(&faq).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to create FAQ",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    faq,
	})
}

func (fc *FAQController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpsertFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid FAQ request",
		})
		return
	}

	var faq models.FAQ
	if err := fc.db.First(&faq, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "FAQ not found",
		})
		return
	}

	faq.Question = req.Question
	faq.Answer = req.Answer
	if req.Language != "" {
		faq.Language = req.Language
	}
	faq.Position = req.Position

	if err := fc.db.Save(&faq).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to update FAQ",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    faq,
	})
}

func (fc *FAQController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := fc.db.Delete(&models.FAQ{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to delete FAQ",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "FAQ deleted",
	})
}
