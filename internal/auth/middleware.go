package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the httpOnly cookie carrying the session ID.
const SessionCookieName = "session_id"

const contextKeyPrincipal = "principal"

// PrincipalFromContext returns the caller set by RequireSession. Zero value if not set.
func PrincipalFromContext(c *gin.Context) Principal {
	v, ok := c.Get(contextKeyPrincipal)
	if !ok {
		return Principal{}
	}
	p, _ := v.(Principal)
	return p
}

// UserIDFromContext returns the current user ID set by RequireSession. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	return PrincipalFromContext(c).UserID
}

// RequireSession returns a middleware that checks for a valid session cookie
// and sets the current principal in context. If missing or invalid, responds with 401.
func RequireSession(sessions *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		p, ok, err := sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeyPrincipal, p)
		c.Next()
	}
}

// Require denies the request with 403 unless the voter grants attr on kind.
// Must run after RequireSession.
func Require(v Voter, kind Kind, attr Attribute) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !v.Vote(PrincipalFromContext(c), attr, Subject{Kind: kind}) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
