// Command server runs the board HTTP API.
//
//	@title						Board API
//	@version					1.0
//	@description				Posts and comments with cookie or bearer credentials, silent token refresh and optimistic versioning.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sbbdoc/board-api/internal/api"
	"github.com/sbbdoc/board-api/internal/api/middleware"
	"github.com/sbbdoc/board-api/internal/core/auth"
	"github.com/sbbdoc/board-api/internal/core/policy"
	"github.com/sbbdoc/board-api/internal/core/search"
	"github.com/sbbdoc/board-api/internal/core/service"
	"github.com/sbbdoc/board-api/internal/infrastructure/config"
	"github.com/sbbdoc/board-api/internal/infrastructure/db/mongo"
	"github.com/sbbdoc/board-api/internal/infrastructure/db/redis"
	"github.com/sbbdoc/board-api/internal/infrastructure/http/handlers"
	"github.com/sbbdoc/board-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// Returns the configured logger when run got that far.
		boot := logger.Init(logger.Options{Service: "board-api"})
		boot.Fatal().Err(err).Msg("server")
	}
}

// run wires the service and blocks until ctx is cancelled or the listener fails.
func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "board-api",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting")

	codec, err := auth.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	actorRepo := mongo.NewActorRepository(db)
	postRepo := mongo.NewPostRepository(db)
	commentRepo := mongo.NewCommentRepository(db)
	if err := mongo.EnsureIndexes(ctx, actorRepo, postRepo, commentRepo); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	keyCache := redis.NewAPIKeyCache(rdb, cfg.Redis.APIKeyTTL, log)

	// --- Services ---
	pol := policy.Policy{AdminOverride: cfg.Auth.AdminOverride}
	pager := search.NewPaginator(cfg.Page.DefaultSize, cfg.Page.MaxSize)

	authService := service.NewAuthService(actorRepo, codec, keyCache, cfg.Auth.AdminUsernames, log)
	postService := service.NewPostService(postRepo, commentRepo, actorRepo, pol, pager, log)
	commentService := service.NewCommentService(postRepo, commentRepo, actorRepo, pol, pager, log)
	resolver := auth.NewResolver(codec, service.NewActorLookup(actorRepo, keyCache, log), log)

	e := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Posts:    postService,
		Comments: commentService,
		Resolver: resolver,
		Pager:    pager,
		Cookies: middleware.Cookies{
			Secure:         cfg.Auth.CookieSecure,
			AccessTokenTTL: cfg.Auth.AccessTokenTTL,
		},
		Readiness: map[string]handlers.Pinger{
			"mongodb": handlers.MongoPinger(db),
			"redis":   handlers.RedisPinger(rdb),
		},
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ":"+cfg.Port).Msg("listening")
		errCh <- e.Start(":" + cfg.Port)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("serve: %w", err)
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	log.Info().Msg("stopped")
	return serveErr
}
