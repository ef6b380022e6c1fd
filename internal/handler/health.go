package handler

import (
	"net/http"

	"orgmanager/internal/version"

	"github.com/gin-gonic/gin"
)

// Root reports the service name and version (GET /)
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Multi-Tenant Organization Management API",
		"version": version.Get().Version,
	})
}

// Health is the liveness probe (GET /health)
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
