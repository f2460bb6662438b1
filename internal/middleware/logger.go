package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs failed requests and recovers from handler panics.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				slog.Error("handler panic",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"user_id", c.GetInt64("user_id"),
					"err", fmt.Sprintf("%v", recovered),
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "Internal server error",
					},
				})
				return
			}

			if c.Writer.Status() >= http.StatusInternalServerError || len(c.Errors) > 0 {
				slog.Error("request failed",
					"status", c.Writer.Status(),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"client_ip", c.ClientIP(),
					"user_id", c.GetInt64("user_id"),
					"latency", time.Since(start),
					"errors", c.Errors.String(),
				)
			}
		}()

		c.Next()
	}
}
