package middleware

import (
	"net/http"
	"strings"

	"hearthbutler/entity"
	"hearthbutler/util"

	"github.com/gin-gonic/gin"
)

// MemberIDKey is the gin context key under which the authenticated
// member's id is stored.
const MemberIDKey = "memberID"

// AuthenticateJWT verifies the Bearer token on protected routes and puts
// the member id into the request context.
func AuthenticateJWT(config *entity.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := util.ValidateJWT(tokenString, config.JWTSecretKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(MemberIDKey, claims.MemberID)
		c.Next()
	}
}

// MemberID extracts the authenticated member id set by AuthenticateJWT.
func MemberID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(MemberIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
