package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"techblog/docs"
	"techblog/internal/auth"
	"techblog/internal/cache"
	"techblog/internal/config"
	"techblog/internal/db"
	"techblog/internal/handler"
	"techblog/internal/model"
	"techblog/internal/repository"
	"techblog/internal/router"
	"techblog/internal/service"
)

// @title Techblog API
// @version 1.0
// @description Blog platform API with an authorization-gated content workflow: post lifecycle, comments with per-author cooldown, and an admin back office.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Comment{},
			&model.Post{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.Comment{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	guard := auth.NewGuard(jwtService, tokenStore)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	postService := service.NewPostService(postRepo, cacheClient)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo)
	statsService := service.NewStatsService(userRepo, postRepo, commentRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)
	adminHandler := handler.NewAdminHandler(postService, statsService)
	healthHandler := handler.NewHealthHandler(gormDB)

	// Register routes
	router.Register(
		e,
		cfg,
		guard,
		authHandler,
		postHandler,
		commentHandler,
		adminHandler,
		healthHandler,
	)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	// Shutdown hook: stop accepting requests, then release redis and the
	// database connection pool.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := cacheClient.Close(); err != nil {
		log.Printf("redis close: %v", err)
	}
	if err := db.Close(gormDB); err != nil {
		log.Printf("database close: %v", err)
	}
}
