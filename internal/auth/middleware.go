package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TokenHeader is the custom header the token travels in. The service predates
// the Bearer scheme and clients still send this.
const TokenHeader = "x-auth-token"

// RequireAuth verifies the token header and puts the caller's identity into
// the request context.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.GetHeader(TokenHeader)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "no token"})
			return
		}
		claims, err := ParseToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid token"})
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Name)
		c.Next()
	}
}
