package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domainUser "bootcamp-directory/internal/domain/user"
	"bootcamp-directory/internal/usecase/auth"
	appErrors "bootcamp-directory/pkg/errors"
	"bootcamp-directory/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	TokenCookie = "token"
	userKey     = "user"
	tokenKey    = "token"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domainUser.User, error)
}

// Protect requires a valid session token from the Authorization header or
// the token cookie. The header wins when both are present.
func Protect(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			abortWith(c, appErrors.ErrNotAuthenticated)
			return
		}

		u, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Set(userKey, u)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// ExtractToken returns the bearer token or the token cookie. The cookie
// value "none" is what logout leaves behind and never counts.
func ExtractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "none" {
		return cookie
	}
	return ""
}

func CurrentUser(c *gin.Context) *domainUser.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*domainUser.User); ok {
			return u
		}
	}
	return nil
}

func CurrentUserID(c *gin.Context) string {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return ""
}

// CurrentActor is the ownership identity of the authenticated user.
func CurrentActor(c *gin.Context) auth.Actor {
	if u := CurrentUser(c); u != nil {
		return auth.ActorOf(u)
	}
	return auth.Actor{}
}

// CurrentToken is the token Protect accepted.
func CurrentToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// abortWith writes an AppError's message; anything else is a 500 with the
// detail kept for the request log.
func abortWith(c *gin.Context, err error) {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) && appErr.Kind != appErrors.KindUpstream {
		utils.ErrorResponse(c, appErrors.StatusOf(appErr.Kind), appErr.Message)
		c.Abort()
		return
	}

	_ = c.Error(err)
	utils.ErrorResponse(c, http.StatusInternalServerError, "Server Error")
	c.Abort()
}
