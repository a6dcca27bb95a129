package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/topicbot/internal/logger"
)

// authHeader is the header the webhook caller presents its shared secret
// in.
const authHeader = "X-Auth-Token"

// AuthMiddleware enforces the webhook shared secret. The comparison is
// constant-time so the token cannot be probed byte by byte. An empty
// configured secret disables authentication; main warns about that at
// startup.
func AuthMiddleware(secret string, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		token := c.GetHeader(authHeader)
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			log.Warn("Rejected webhook request with bad auth token",
				logger.String("client_ip", c.ClientIP()),
				logger.String("path", c.Request.URL.Path),
				logger.Bool("token_present", token != ""),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
