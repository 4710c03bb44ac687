package router

import (
	"github.com/anonto42/nano-midea/postdir/internal/directory"
	"github.com/anonto42/nano-midea/postdir/internal/handlers"
	"github.com/anonto42/nano-midea/postdir/internal/middleware"
	"github.com/anonto42/nano-midea/postdir/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Deps are the already-built pieces the routes are wired to
type Deps struct {
	Directory           *directory.Directory
	Submitter           handlers.Submitter
	Accounts            repositories.AccountRepository // nil disables the user routes
	SignUpRatePerMinute int                            // 0 disables rate limiting
	MediaDir            string                         // empty disables /media
	Log                 *zap.Logger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck(deps.Directory))

	if deps.MediaDir != "" {
		e.Static("/media", deps.MediaDir)
		log.Info("Media files served", zap.String("dir", deps.MediaDir))
	}

	var signupLimits []echo.MiddlewareFunc
	if deps.SignUpRatePerMinute > 0 {
		signupLimits = append(signupLimits, middleware.NewRateLimiter(deps.SignUpRatePerMinute).Middleware())
	}

	api := e.Group("/api/v1")

	// Post directory routes
	postHandler := handlers.NewPostHandler(deps.Directory)
	postHandler.RegisterPostRoutes(api)
	log.Info("Post routes configured")

	// User lookup routes
	if deps.Accounts != nil {
		userHandler := handlers.NewUserHandler(deps.Accounts)
		userHandler.RegisterUserRoutes(api)
		log.Info("User routes configured")
	}

	// Sign-up routes
	signupHandler := handlers.NewSignupHandler(deps.Submitter)
	signupHandler.RegisterSignupRoutes(api.Group("/auth", signupLimits...))
	signupHandler.RegisterFormRoutes(e, signupLimits...)
	log.Info("Sign-up routes configured")
}
