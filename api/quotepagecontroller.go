package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"quoteme/pages"
)

func (s *Server) registerQuotePageRoutes(r *gin.Engine) {
	r.GET("/quote/:id", s.handleQuotePage)
}

// handleQuotePage serves the social-preview page for a shared quote. Bots
// read the Open Graph tags; humans get redirected into the app.
func (s *Server) handleQuotePage(c *gin.Context) {
	id := c.Param("id")
	ua := c.GetHeader("User-Agent")
	if pages.IsSocialBot(ua) {
		log.Info("serving quote page to social crawler", "id", id, "ua", ua)
	}

	quote, err := s.store.GetQuote(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to load quote for page", "id", id, "err", err)
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(s.pages.ErrorPage()))
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")

	if quote == nil {
		html, rerr := s.pages.FallbackPage()
		if rerr != nil {
			log.Error("failed to render fallback page", "err", rerr)
			c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(s.pages.ErrorPage()))
			return
		}
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(html))
		return
	}

	html, err := s.pages.QuotePage(quote)
	if err != nil {
		log.Error("failed to render quote page", "id", id, "err", err)
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(s.pages.ErrorPage()))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
