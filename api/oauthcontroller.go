package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"quoteme/oauth"
	"quoteme/pages"
)

func (s *Server) registerOAuthRoutes(r *gin.Engine) {
	r.GET("/auth/callback", s.handleOAuthCallback)
	r.GET("/auth/check", s.handleOAuthCheck)
}

// renderAuthPage writes an HTML auth page with caching disabled so browsers
// never replay a stale success or error screen.
func renderAuthPage(c *gin.Context, status int, html string) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Data(status, "text/html; charset=utf-8", []byte(html))
}

func (s *Server) renderAuthError(c *gin.Context, status int, message string) {
	html, err := s.pages.AuthErrorPage(message)
	if err != nil {
		log.Error("failed to render auth error page", "err", err)
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(s.pages.ErrorPage()))
		return
	}
	renderAuthPage(c, status, html)
}

// handleOAuthCallback finishes the Cognito hosted-UI flow: exchange the code,
// stash a one-time success flag, and hand the browser either the app deep
// link or a web redirect.
func (s *Server) handleOAuthCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		message := c.Query("error_description")
		if message == "" {
			message = "Authentication failed"
		}
		log.Warn("oauth callback returned error", "error", errParam, "description", message)
		s.renderAuthError(c, http.StatusBadRequest, message)
		return
	}

	code := c.Query("code")
	if code == "" {
		s.renderAuthError(c, http.StatusBadRequest, "No authorization code received")
		return
	}

	ctx := c.Request.Context()
	tokens, err := oauth.Exchange(ctx, s.oauth, code)
	if err != nil {
		log.Error("token exchange failed", "err", err)
		s.renderAuthError(c, http.StatusBadRequest, "Token exchange failed: "+err.Error())
		return
	}

	var successKey string
	if claims, err := oauth.DecodeIDTokenClaims(tokens.IDToken); err != nil {
		log.Warn("could not decode id token claims", "err", err)
	} else if s.flags != nil {
		key, err := s.flags.StoreSuccess(ctx, claims.Email, claims.Sub)
		if err != nil {
			// The app falls back to its own session restore without a key.
			log.Warn("failed to store oauth success flag", "err", err)
		} else {
			successKey = key
			log.Info("stored oauth success flag", "email", claims.Email)
		}
	}

	isMobile := pages.IsMobile(c.GetHeader("User-Agent"))
	html, err := s.pages.SuccessPage(isMobile, successKey)
	if err != nil {
		log.Error("failed to render success page", "err", err)
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(s.pages.ErrorPage()))
		return
	}
	renderAuthPage(c, http.StatusOK, html)
}

// handleOAuthCheck lets the mobile app redeem the one-time success flag from
// the deep link. A flag can only be consumed once.
func (s *Server) handleOAuthCheck(c *gin.Context) {
	if s.flags == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Flag storage is not configured",
		})
		return
	}

	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing success key",
		})
		return
	}

	flag, err := s.flags.Consume(c.Request.Context(), key)
	if err != nil {
		log.Error("failed to consume oauth flag", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal server error",
		})
		return
	}
	if flag == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Success flag not found or expired",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"user_email": flag.Email,
		"user_sub":   flag.Sub,
	})
}
