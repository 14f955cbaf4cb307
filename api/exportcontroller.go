package api

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerExportRoutes(r *gin.Engine) {
	// Exports accept but do not require a token; the export is stamped with
	// the caller's email when one is present.
	r.POST("/export", s.handleExport)
}

type exportRequest struct {
	Type        string `json:"type"`
	Format      string `json:"format"`
	Destination string `json:"destination"`
}

func (s *Server) handleExport(c *gin.Context) {
	if s.exporter == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Export storage is not configured",
		})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid JSON in request body",
		})
		return
	}
	if req.Type == "" {
		req.Type = "quotes"
	}
	if req.Format == "" {
		req.Format = "json"
	}
	if req.Destination == "" {
		req.Destination = "s3"
	}

	user := "unknown"
	if claims, ok := bearerClaims(c); ok && claims.Email != "" {
		user = claims.Email
	}

	ctx := c.Request.Context()
	payload, err := s.exporter.BuildPayload(ctx, user, req.Type, req.Format)
	if err != nil {
		log.Error("failed to build export", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to build export",
		})
		return
	}

	switch req.Destination {
	case "s3":
		result, err := s.exporter.Upload(ctx, payload, user, req.Type, req.Format)
		if err != nil {
			log.Error("failed to upload export", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to upload export",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"message":      "Export completed successfully",
			"download_url": result.DownloadURL,
			"s3_key":       result.Key,
			"expires_in":   result.ExpiresIn,
			"size": gin.H{
				"original":   result.OriginalSize,
				"compressed": result.CompressedSize,
			},
			"statistics": payload.Metadata.Statistics,
		})

	case "clipboard", "download":
		data, err := payload.Encode(req.Format)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": fmt.Sprintf("Invalid format: %s", req.Format),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"destination": req.Destination,
			"data":        string(data),
			"statistics":  payload.Metadata.Statistics,
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": fmt.Sprintf("Invalid destination: %s", req.Destination),
		})
	}
}
