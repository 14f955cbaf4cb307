package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealthCheck)
}

func (s *Server) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
