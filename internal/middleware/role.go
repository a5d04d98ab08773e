package middleware

import (
	"fmt"

	appErrors "bootcamp-directory/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Authorize admits only the listed roles. It must run after Protect.
func Authorize(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			abortWith(c, appErrors.ErrNotAuthenticated)
			return
		}

		for _, allowedRole := range allowedRoles {
			if u.Role == allowedRole {
				c.Next()
				return
			}
		}

		abortWith(c, appErrors.Forbidden(fmt.Sprintf("User role %s is not authorized to access this route", u.Role)))
	}
}
