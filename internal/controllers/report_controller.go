package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sling/backend/internal/services"
)

type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

// reportRange parses the from/to query parameters (RFC 3339). A missing
// range defaults to the last 30 days.
func reportRange(c *gin.Context) (time.Time, time.Time, bool) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid from timestamp",
			})
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid to timestamp",
			})
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	return from, to, true
}

func (rc *ReportController) ByStatus(c *gin.Context) {
	from, to, ok := reportRange(c)
	if !ok {
		return
	}

	counts, err := rc.reports.CountsByStatus(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    counts,
	})
}

func (rc *ReportController) ByType(c *gin.Context) {
	from, to, ok := reportRange(c)
	if !ok {
		return
	}

	counts, err := rc.reports.CountsByType(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    counts,
	})
}

func (rc *ReportController) AgentClosed(c *gin.Context) {
	from, to, ok := reportRange(c)
	if !ok {
		return
	}

	counts, err := rc.reports.AgentClosedCounts(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    counts,
	})
}
