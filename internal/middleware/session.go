package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookie names the cookie that carries the session id
	SessionCookie = "vidmarks_session"
	// SessionContextKey is the gin context key holding the session id
	SessionContextKey = "session_id"
	// SessionIssuedKey is set when the session id was created for this request
	SessionIssuedKey = "session_issued"
)

// Session ensures every request carries a session id, issuing a cookie when absent
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err == nil {
			_, err = uuid.Parse(id)
		}
		if err != nil {
			id = uuid.New().String()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(SessionIssuedKey, true)
		}

		c.Set(SessionContextKey, id)
		c.Next()
	}
}

// GetSessionID returns the session id set by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionContextKey)
}

// SessionIssued reports whether the request arrived without a valid session cookie
func SessionIssued(c *gin.Context) bool {
	return c.GetBool(SessionIssuedKey)
}
