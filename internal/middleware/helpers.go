// internal/middleware/helpers.go
package middleware

import (
	"crm-service/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

// GetUserID gets the authenticated user's ID from context.
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// MustGetUserID gets the user ID from context or panics. Only for use
// behind the Auth middleware.
func MustGetUserID(c *gin.Context) int64 {
	id, ok := GetUserID(c)
	if !ok {
		panic("user_id not found in context")
	}
	return id
}

// CurrentUser gets the authenticated user from context.
func CurrentUser(c *gin.Context) (*auth.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := v.(*auth.User)
	return user, ok
}
