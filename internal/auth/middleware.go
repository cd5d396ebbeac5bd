package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
)

// IdentifyUser copies the session user into the Gin context. It never blocks
// a request; read endpoints are public.
func (sm *SessionManager) IdentifyUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := sm.SessionUserID(c.Request); userID != "" {
			c.Set(ContextKeyUserID, userID)
			c.Set(ContextKeyUsername, sm.GetString(c.Request.Context(), SessionKeyUsername))
		}
		c.Next()
	}
}

// RequireUser aborts with 401 when no user is signed in. Used on write
// routes only.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please sign in"})
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the signed-in user's id from the Gin context, or ""
// when the request is anonymous.
func CurrentUserID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyUserID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
