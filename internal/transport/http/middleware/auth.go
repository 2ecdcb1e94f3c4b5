package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gotodo/internal/app"
	"gotodo/internal/model"
	"gotodo/internal/transport/http/response"
)

const ContextUserKey = "current_user"

const (
	detailNotAuthenticated = "Not authenticated"
	detailTokenExpired     = "Token has expired"
	detailBadCredentials   = "Could not validate credentials"
)

// AuthBearer resolves the bearer token to a user record and aborts with 401
// otherwise. The "could not validate credentials" detail deliberately covers
// both a bad token and an unknown subject.
func AuthBearer(authService *app.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abortUnauthorized(c, detailNotAuthenticated)
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			abortUnauthorized(c, detailNotAuthenticated)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		user, err := authService.Authenticate(token)
		if err != nil {
			switch {
			case errors.Is(err, app.ErrTokenExpired):
				abortUnauthorized(c, detailTokenExpired)
			case errors.Is(err, app.ErrTokenInvalid):
				abortUnauthorized(c, detailBadCredentials)
			default:
				response.Error(c, http.StatusInternalServerError, "authentication failed")
				c.Abort()
			}
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthBearer for this request.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}

func abortUnauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	response.Error(c, http.StatusUnauthorized, detail)
	c.Abort()
}
