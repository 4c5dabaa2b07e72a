package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sling/backend/internal/apperror"
	"github.com/sling/backend/internal/logger"
)

// respondError maps a service error onto the wire: typed domain errors keep
// their machine-readable code, anything else becomes a generic internal
// error.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), gin.H{
			"success": false,
			"message": appErr.Message,
			"code":    appErr.Code,
		})
		return
	}

	logger.WithError(err, "controller").Error("Unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "Internal error",
		"code":    apperror.CodeInternal,
	})
}

// pathID parses the numeric :id path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid id",
		})
		return 0, false
	}
	return uint(id), true
}

func accountName(c *gin.Context) string {
	if v, exists := c.Get("account_name"); exists {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}
