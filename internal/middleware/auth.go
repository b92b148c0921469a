package middleware

import (
	"hellfire/internal/models"
	"hellfire/internal/services"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// SessionUserKey is the session field holding the logged-in user's id.
const SessionUserKey = "user_id"

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			session := sessions.Default(c)
			session.AddFlash("Please log in to continue.")
			session.Save()
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		if userID, ok := session.Get(SessionUserKey).(uint); ok {
			user, err := auth.CurrentUser(userID)
			if err == nil {
				c.Set(CheckUserKey, user)
			} else {
				// stale cookie for a user that no longer resolves
				session.Delete(SessionUserKey)
				session.Save()
			}
		}
		c.Next()
	}
}

// CurrentUser returns the acting user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(CheckUserKey); exists {
		if user, ok := u.(*models.User); ok {
			return user
		}
	}
	return nil
}
