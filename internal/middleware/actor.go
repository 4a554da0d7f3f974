package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ActorHeader names the header the authenticating proxy forwards the acting
// user's identifier in. Authentication itself happens upstream.
const ActorHeader = "X-Actor-ID"

const actorKey = "actorID"

// ActorMiddleware extracts the acting user from the request headers. Requests
// without an actor are rejected; every write needs an author for the audit
// trail.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(ActorHeader)
		if actorID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + ActorHeader + " header"})
			return
		}
		c.Set(actorKey, actorID)
		c.Next()
	}
}

// GetActorIDFromContext returns the acting user ID stored by ActorMiddleware.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorID, ok := c.Get(actorKey)
	if !ok {
		return "", false
	}
	s, ok := actorID.(string)
	return s, ok && s != ""
}
