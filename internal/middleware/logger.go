package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// CustomLoggerMiddleware logs HTTP requests in simple text format
func CustomLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)

		account := ""
		if v, exists := c.Get("account_name"); exists {
			if name, ok := v.(string); ok {
				account = name
			}
		}

		fmt.Printf("[API] %s | %s | %d | %s | %s | Account: %s\n",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			latency.String(),
			c.ClientIP(),
			account,
		)
	}
}
