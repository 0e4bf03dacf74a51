package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports backend reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health returns 200 while the store answers, 503 otherwise
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Food Ordering API",
			"version": "1.0.0",
		})
	}
}

// ListRoutes describes every registered route
func ListRoutes(r *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		routes := make([]gin.H, 0)
		for _, rt := range r.Routes() {
			routes = append(routes, gin.H{"method": rt.Method, "path": rt.Path})
		}
		c.JSON(http.StatusOK, gin.H{"count": len(routes), "routes": routes})
	}
}
