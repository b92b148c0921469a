package router

import (
	"hellfire/internal/handlers"
	"hellfire/internal/middleware"
	"hellfire/internal/services"

	"github.com/gin-gonic/gin"
)

// Services groups everything the handlers depend on.
type Services struct {
	Auth       *services.AuthService
	Content    *services.ContentService
	Reactions  *services.ReactionService
	Moderation *services.ModerationService
	Profiles   *services.ProfileService
}

// RegisterRoutes wires every page. maxUploadBytes caps profile picture
// request bodies; zero leaves them unbounded.
func RegisterRoutes(r *gin.Engine, svc *Services, maxUploadBytes int64) {
	// Handlers
	authHandler := handlers.NewAuthHandler(svc.Auth)
	topicHandler := handlers.NewTopicHandler(svc.Content, svc.Reactions)
	likeHandler := handlers.NewLikeHandler(svc.Reactions)
	adminHandler := handlers.NewAdminHandler(svc.Moderation)
	profileHandler := handlers.NewProfileHandler(svc.Profiles)

	// Public routes
	r.GET("/", topicHandler.List)
	r.GET("/topic/:id", topicHandler.Detail)
	r.GET("/profile/:username", profileHandler.Show)
	// ownership is checked by the service, anonymous uploads are a no-op
	r.POST("/profile/:username", middleware.LimitUploadBody(maxUploadBytes), profileHandler.UpdatePicture)

	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/logout", authHandler.Logout)
		authorized.GET("/create", topicHandler.ShowCreate)
		authorized.POST("/create", topicHandler.Create)
		authorized.POST("/topic/:id/comment", topicHandler.CreateComment)
		authorized.POST("/comment/:id/delete", topicHandler.DeleteComment)
		authorized.POST("/like/:id", likeHandler.Toggle)
		authorized.POST("/set_theme", profileHandler.SetTheme)
	}

	// Admin routes. Non-admins are redirected home by the handlers.
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired())
	{
		admin.GET("", adminHandler.Dashboard)
		admin.POST("/delete_topic/:id", adminHandler.DeleteTopic)
		admin.GET("/edit_topic/:id", adminHandler.ShowEdit)
		admin.POST("/edit_topic/:id", adminHandler.Edit)
	}
}
