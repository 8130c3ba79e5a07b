// Package middleware provides HTTP middleware for the Gin router.
//
// Go Learning Note — Middleware Pattern (Gin):
// In Gin, middleware is any function with the signature `gin.HandlerFunc`, which
// is `func(*gin.Context)`. Middleware functions form a chain: each one runs,
// optionally calls c.Next() to pass control to the next handler, and can call
// c.Abort() to stop the chain.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys for the caller identity.
const (
	UserIDKey   = "user_id"
	UserTypeKey = "user_type"

	UserTypeCustomer = "customer"
	UserTypeDriver   = "driver"
)

// MockAuth reads the caller's identifier from "Authorization: Bearer <id>"
// and tags the request with userType. The identifier is not verified here:
// the services reject identifiers that are not registered.
//
// Go Learning Note — Returning Functions (Closures):
// MockAuth(userType) returns a gin.HandlerFunc that captures userType. Each
// route group gets its own closure, so the customer and driver groups tag
// requests differently with the same code.
func MockAuth(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, strings.TrimSpace(parts[1]))
		c.Set(UserTypeKey, userType)
		c.Next()
	}
}

// GetUserID retrieves the identifier set by MockAuth. It returns "" when
// MockAuth did not run.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get(UserIDKey)
	id, _ := userID.(string)
	return id
}

func GetUserType(c *gin.Context) string {
	userType, _ := c.Get(UserTypeKey)
	t, _ := userType.(string)
	return t
}
