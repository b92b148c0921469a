package router

import (
	"hellfire/internal/middleware"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	SessionName   = "hellfire_session"
	sessionMaxAge = 7 * 24 * 60 * 60
)

type Options struct {
	SessionSecret string
	// SecureCookies marks the session cookie HTTPS-only.
	SecureCookies bool
	TemplatesDir  string
	StaticDir     string
	UploadDir     string
	// MaxUploadBytes caps the multipart memory buffer and, with some
	// room for form overhead, the profile picture request body.
	MaxUploadBytes int64
}

// NewEngine builds the gin engine with sessions, templates, static files
// and every route.
func NewEngine(svc *Services, opts Options) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	if opts.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = opts.MaxUploadBytes
	}

	// Setup Sessions
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(SessionName, store))

	renderer, err := LoadTemplates(opts.TemplatesDir)
	if err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	// Static Assets
	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
	}
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	r.Use(middleware.LoadUser(svc.Auth))

	RegisterRoutes(r, svc, opts.MaxUploadBytes)
	return r, nil
}
