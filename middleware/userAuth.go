package middleware

import (
	"net/http"
	"strings"

	"github.com/larrybwosi/realstate-sub001/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthTenantMiddleware authenticates the tenant initiating a payment and
// stores the tenant ID on the context.
func JWTAuthTenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		tenantID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || tenantID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		c.Set("tenantID", tenantID)
		c.Next()
	}
}
