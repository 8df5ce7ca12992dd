package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/kanbanhq/kanban-api/docs"
	"github.com/kanbanhq/kanban-api/internal/api/handler"
	"github.com/kanbanhq/kanban-api/internal/api/middleware"
	"github.com/kanbanhq/kanban-api/internal/core/domain"
	"github.com/kanbanhq/kanban-api/internal/core/ports"
	"github.com/kanbanhq/kanban-api/internal/core/service"
	"github.com/kanbanhq/kanban-api/internal/infrastructure/config"
	mongodb "github.com/kanbanhq/kanban-api/internal/infrastructure/db/mongo"
	"github.com/kanbanhq/kanban-api/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The event publisher is injected so callers choose between synchronous and
// queued publication.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, cfg *config.Config, publisher ports.EventPublisher) (*echo.Echo, error) {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("kanban"))

	// --- Dependencies ---
	userRepo, err := mongodb.NewUserRepository(ctx, db)
	if err != nil {
		return nil, err
	}
	listRepo := mongodb.NewListRepository(db)
	cardRepo := mongodb.NewCardRepository(db)

	tokenService := service.NewTokenService(service.TokenConfig{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
	authService := service.NewAuthService(userRepo, tokenService)
	userService := service.NewUserService(userRepo, publisher, log)
	listService := service.NewListService(userRepo, listRepo, cardRepo, publisher, log)
	cardService := service.NewCardService(userRepo, listRepo, cardRepo, publisher, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	listHandler := handler.NewListHandler(listService)
	cardHandler := handler.NewCardHandler(cardService)
	eventHandler := handler.NewEventHandler(publisher)

	requireAuth := middleware.Auth(tokenService)

	// --- Auth routes (no token required) ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// --- Protected routes ---
	apiGroup := e.Group("/api", requireAuth)

	apiGroup.GET("/users/me", userHandler.Me)
	apiGroup.PATCH("/users/:id", userHandler.Update)

	apiGroup.POST("/lists", listHandler.Create)
	apiGroup.GET("/lists", listHandler.ListMine)
	apiGroup.GET("/lists/:id", listHandler.Get)
	apiGroup.PATCH("/lists/:id", listHandler.Update)
	apiGroup.DELETE("/lists/:id", listHandler.Delete)

	apiGroup.POST("/lists/:id/cards", cardHandler.Create)
	apiGroup.GET("/lists/:id/cards", cardHandler.ListByList)
	apiGroup.PATCH("/cards/:id", cardHandler.Update)
	apiGroup.DELETE("/cards/:id", cardHandler.Delete)

	apiGroup.POST("/events/test", eventHandler.Test, middleware.RequireRole(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational surface ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
