package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "tintrack_user_id"
	ctxJti    = "tintrack_jti"
)

// requireAuth validates the bearer token and stashes the caller's
// identity in the request context.
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxJti, claims.ID)
	c.Next()
}

func userID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}
