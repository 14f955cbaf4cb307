package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quoteme/oauth"
)

const claimsKey = "claims"

// corsMiddleware mirrors the headers the fronting proxy has always sent, so
// browsers behave the same whether they hit the proxy or this service
// directly.
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Headers", "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token")
		c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// bearerClaims reads the Authorization header and decodes the JWT payload.
// The fronting proxy verifies signatures before traffic reaches us.
func bearerClaims(c *gin.Context) (*oauth.Claims, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}

	claims, err := oauth.DecodeIDTokenClaims(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// requireClaims rejects requests without a decodable bearer token.
func (s *Server) requireClaims() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c)
		if !ok || claims.Email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// requireAdmin must run after requireClaims.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil || !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "Admin access required",
			})
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *oauth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*oauth.Claims)
	return claims
}

// username returns the acting user's name for audit stamps.
func username(c *gin.Context) string {
	if claims := claimsFrom(c); claims != nil && claims.Username != "" {
		return claims.Username
	}
	return "unknown"
}
