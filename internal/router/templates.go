package router

import (
	"fmt"
	"hellfire/internal/models"
	"hellfire/internal/utils"
	"html/template"
	"net/url"
	"path/filepath"
	"time"

	"github.com/gin-contrib/multitemplate"
)

// views maps each handler-facing template name to its file under views/.
var views = []string{
	"index.html",
	"register.html",
	"login.html",
	"create.html",
	"topic.html",
	"admin.html",
	"edit_topic.html",
	"profile.html",
	"error.html",
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": utils.RenderMarkdown,
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"profileURL": func(username string) string {
			return "/profile/" + url.PathEscape(username)
		},
		"avatarURL": func(pic string) string {
			if pic == "" || pic == models.DefaultProfilePic {
				return "/static/img/default-avatar.svg"
			}
			return "/uploads/" + url.PathEscape(pic)
		},
		"themeClass": func(user *models.User) string {
			if user == nil || user.Theme == "" {
				return "theme-" + models.DefaultTheme
			}
			return "theme-" + user.Theme
		},
	}
}

// LoadTemplates pairs every view with the shared layouts so each view name
// renders as a full page.
func LoadTemplates(templatesDir string) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(filepath.Join(templatesDir, "layouts", "*.html"))
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layouts found in %s", templatesDir)
	}

	includes, err := filepath.Glob(filepath.Join(templatesDir, "includes", "*.html"))
	if err != nil {
		return nil, err
	}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, filepath.Join(templatesDir, "views", view))
		return files
	}

	funcMap := templateFuncs()
	for _, view := range views {
		r.AddFromFilesFuncs(view, funcMap, assemble(view)...)
	}
	return r, nil
}
