// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/eventhub-storefront/internal/config"
	"github.com/your-org/eventhub-storefront/internal/pkg/session"
)

// SessionIDKey is the gin context key holding the storefront session id
const SessionIDKey = "session_id"

// Session resolves the storefront session from its cookie. A missing,
// expired or tampered token is replaced with a freshly issued session.
func Session(cfg *config.Config, manager *session.Manager, logger *logrus.Logger) gin.HandlerFunc {
	cookieName := cfg.Session.CookieName
	maxAge := int(cfg.Session.TTL.Seconds())

	return func(c *gin.Context) {
		var sessionID string

		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			if id, err := manager.Parse(token); err == nil {
				sessionID = id
			} else {
				logger.WithError(err).Debug("Discarding invalid session cookie")
			}
		}

		if sessionID == "" {
			id, token, err := manager.Issue()
			if err != nil {
				logger.WithError(err).Error("Failed to issue session")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to start session",
				})
				return
			}
			sessionID = id

			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, token, maxAge, "/", "", cfg.Session.Secure, true)
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID extracts the storefront session id from the gin context
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(SessionIDKey)
	if !exists {
		return "", false
	}

	id, ok := sessionID.(string)
	return id, ok && id != ""
}
