package handlers

import (
	"fmt"
	"hellfire/internal/middleware"
	"hellfire/internal/utils"
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like the current user and pending flashes
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}

	session := sessions.Default(c)
	if flashes := session.Flashes(); len(flashes) > 0 {
		obj["Flashes"] = flashes
		session.Save()
	}

	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// Redirect stores a one-shot message for the next page and redirects to path.
func Redirect(c *gin.Context, path, message string) {
	if message != "" {
		session := sessions.Default(c)
		session.AddFlash(message)
		session.Save()
	}
	c.Redirect(http.StatusFound, path)
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message, "Title": http.StatusText(code)})
}

// paramID reads a numeric route parameter, rendering a 404 when it is not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		RenderError(c, http.StatusNotFound, "Page not found.")
	}
	return id, ok
}

func topicPath(id uint) string {
	return fmt.Sprintf("/topic/%d", id)
}

func profilePath(username string) string {
	return "/profile/" + url.PathEscape(username)
}
