package middleware

import (
	"net/http"
	"strings"

	"github.com/raaghavgupta2020/budget-app/internal/models"
	"github.com/raaghavgupta2020/budget-app/internal/store"
	"github.com/raaghavgupta2020/budget-app/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUserKey is the gin context key holding the authenticated account.
const currentUserKey = "currentUser"

// Auth validates the bearer token and puts the resolved account into the
// context. The token subject is re-checked against a live account, so a
// stale token for a deleted account is rejected instead of riding out its
// expiry.
func Auth(jwtSecret string, accounts *store.AccountStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
			c.Abort()
			return
		}

		username, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid or expired token")
			c.Abort()
			return
		}

		user, err := accounts.FindByUsername(c.Request.Context(), username)
		if err != nil {
			// a missing subject account is treated the same as a bad token
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireOwner rejects requests whose path username does not match the
// authenticated identity. Must run after Auth.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
			c.Abort()
			return
		}
		if c.Param("username") != user.Username {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "you can only access your own entries")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the account placed in the context by Auth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
