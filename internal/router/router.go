package router

import (
	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"techblog/internal/auth"
	"techblog/internal/config"
	"techblog/internal/handler"
	"techblog/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	guard *auth.Guard,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
	adminHandler *handler.AdminHandler,
	healthHandler *handler.HealthHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", healthHandler.Check)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	api.GET("/posts", postHandler.ListPublished)
	api.GET("/posts/:slug", postHandler.GetBySlug)
	api.GET("/posts/:slug/comments", commentHandler.List)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}), guard.RequireAuth)

	secured.POST("/posts/:slug/comments", commentHandler.Create)

	// Admin routes: SessionGate resolves the session up front and redirects
	// browser clients; RequireRole does the actual 401/403 enforcement.
	admin := api.Group("/admin",
		guard.SessionGate("/login", "/"),
		guard.RequireRole(model.RoleAdmin),
	)

	admin.GET("/posts", adminHandler.ListPosts)
	admin.POST("/posts", adminHandler.CreatePost)
	admin.GET("/posts/:id", adminHandler.GetPost)
	admin.PUT("/posts/:id", adminHandler.UpdatePost)
	admin.DELETE("/posts/:id", adminHandler.DeletePost)
	admin.GET("/stats", adminHandler.GetStats)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
