package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sling/backend/internal/models"
	"github.com/sling/backend/internal/search"
	"github.com/sling/backend/internal/services"
)

// EventController is the agent console's event surface. Every route behind
// it already passed the support role check.
type EventController struct {
	events *services.EventService
}

func NewEventController(events *services.EventService) *EventController {
	return &EventController{events: events}
}

type SearchEventsRequest struct {
	Search search.Search        `json:"search"`
	Page   services.PageRequest `json:"page"`
}

// SearchEvents runs an arbitrary filter search. The search body arrives as
// tagged filter objects; an unknown tag rejects the whole request.
func (ec *EventController) SearchEvents(c *gin.Context) {
	var req SearchEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid search request",
			"errors":  err.Error(),
		})
		return
	}

	page, err := ec.events.SearchEvents(c.Request.Context(), req.Search, req.Page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    page,
	})
}

type LoadEventsRequest struct {
	Criterion services.LoadCriterion `json:"criterion" binding:"required"`
	Query     string                 `json:"query"`
	Page      services.PageRequest   `json:"page"`
}

// LoadEvents serves the fixed console lists (OPEN, MY, ALL, ACCOUNT).
func (ec *EventController) LoadEvents(c *gin.Context) {
	var req LoadEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid load request",
			"errors":  err.Error(),
		})
		return
	}

	page, err := ec.events.LoadEvents(c.Request.Context(), req.Criterion, req.Query, accountName(c), req.Page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    page,
	})
}

func (ec *EventController) GetEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	event, messages, err := ec.events.GetEvent(c.Request.Context(), id, true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"event":    event,
			"messages": messages,
		},
	})
}

type UpdateStatusRequest struct {
	Status models.EventStatus `json:"status" binding:"required"`
}

func (ec *EventController) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid status request",
		})
		return
	}

	event, err := ec.events.UpdateStatus(c.Request.Context(), id, req.Status, accountName(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    event,
	})
}

// Claim is a shorthand for the IN_PROGRESS transition.
func (ec *EventController) Claim(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	event, err := ec.events.UpdateStatus(c.Request.Context(), id, models.StatusInProgress, accountName(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    event,
	})
}

type SetWaitingRequest struct {
	Waiting *bool `json:"waiting" binding:"required"`
}

func (ec *EventController) SetWaiting(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SetWaitingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid waiting request",
		})
		return
	}

	event, err := ec.events.SetWaiting(c.Request.Context(), id, *req.Waiting)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    event,
	})
}

type PostMessageRequest struct {
	Body   string               `json:"body" binding:"required"`
	Access models.MessageAccess `json:"access" binding:"required"`
}

func (ec *EventController) PostMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid message request",
		})
		return
	}

	msg, err := ec.events.PostMessage(c.Request.Context(), id, accountName(c), req.Body, req.Access)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    msg,
	})
}

type RecordEventRequest struct {
	Type        models.EventType `json:"type" binding:"required"`
	AccountName string           `json:"accountName" binding:"required"`
	TargetName  *string          `json:"targetName"`
	Subject     string           `json:"subject" binding:"required"`
	ChatHistory string           `json:"chatHistory"`
	Link        *string          `json:"link"`
	Language    *string          `json:"language"`
}

// RecordEvent lets agents file notes and complaints against an account.
func (ec *EventController) RecordEvent(c *gin.Context) {
	var req RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid event request",
			"errors":  err.Error(),
		})
		return
	}

	if req.Type != models.TypeNote && req.Type != models.TypeComplaint {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Agents can record notes and complaints only",
		})
		return
	}

	event, err := ec.events.CreateEvent(c.Request.Context(), services.NewEventInput{
		Type:        req.Type,
		SourceName:  req.AccountName,
		TargetName:  req.TargetName,
		Subject:     req.Subject,
		ChatHistory: req.ChatHistory,
		Link:        req.Link,
		Language:    req.Language,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    event,
	})
}
