package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sbbdoc/board-api/docs"
	"github.com/sbbdoc/board-api/internal/api/handler"
	"github.com/sbbdoc/board-api/internal/api/metrics"
	"github.com/sbbdoc/board-api/internal/api/middleware"
	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/ports"
	"github.com/sbbdoc/board-api/internal/core/search"
	"github.com/sbbdoc/board-api/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Auth     ports.AuthService
	Posts    ports.PostService
	Comments ports.CommentService

	Resolver middleware.ActorResolver
	Pager    search.Paginator
	Cookies  middleware.Cookies

	// Readiness lists the dependencies probed by /health/ready.
	Readiness map[string]handlers.Pinger
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(metrics.Middleware())

	// --- Health probes, metrics and docs (no credentials read) ---
	health := handlers.NewHealthHandler()
	ready := handlers.NewReadinessHandler(deps.Readiness)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", ready.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	users := handler.NewUserHandler(deps.Auth, deps.Posts, deps.Pager, deps.Cookies)
	posts := handler.NewPostHandler(deps.Posts, deps.Pager)
	comments := handler.NewCommentHandler(deps.Comments, deps.Pager)

	v1 := e.Group("/api/v1", middleware.Authenticate(deps.Resolver, deps.Cookies, deps.Logger))
	signedIn := middleware.RequireActor()

	// --- Users ---
	v1.POST("/users/sign-up", users.SignUp)
	v1.POST("/users/login", users.Login)
	v1.DELETE("/users/logout", users.Logout)
	v1.GET("/users/me", users.Me, signedIn)
	v1.GET("/users/me/posts", users.MyPosts, signedIn)
	v1.POST("/users/me/api-key", users.RotateAPIKey, signedIn)

	// --- Posts ---
	v1.GET("/posts", posts.List)
	v1.GET("/posts/statistics", posts.Statistics, middleware.RequireRole(domain.RoleAdmin))
	v1.GET("/posts/:id", posts.Get)
	v1.POST("/posts", posts.Create, signedIn)
	v1.PUT("/posts/:id", posts.Modify, signedIn)
	v1.DELETE("/posts/:id", posts.Delete, signedIn)

	// --- Comments ---
	v1.GET("/posts/:postId/comments", comments.List)
	v1.POST("/posts/:postId/comments", comments.Create, signedIn)
	v1.PUT("/posts/:postId/comments/:id", comments.Modify, signedIn)
	v1.DELETE("/posts/:postId/comments/:id", comments.Delete, signedIn)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error()
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
