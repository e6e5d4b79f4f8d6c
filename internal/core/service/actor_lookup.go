package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/ports"
)

// ActorLookup serves the resolver's actor queries, answering API key lookups
// from the cache when it can.
type ActorLookup struct {
	repo   ports.ActorRepository
	cache  ports.APIKeyCache
	logger zerolog.Logger
}

func NewActorLookup(repo ports.ActorRepository, cache ports.APIKeyCache, logger zerolog.Logger) *ActorLookup {
	if cache == nil {
		cache = noopCache{}
	}
	return &ActorLookup{repo: repo, cache: cache, logger: logger}
}

func (l *ActorLookup) FindByID(ctx context.Context, id int64) (*domain.Actor, error) {
	return l.repo.FindByID(ctx, id)
}

// FindByAPIKey answers from the cache when it can. Rotation invalidates the
// old key, so a cached snapshot is trusted without a store read.
func (l *ActorLookup) FindByAPIKey(ctx context.Context, apiKey string) (*domain.Actor, error) {
	if actor, ok := l.cache.Get(ctx, apiKey); ok {
		if actor.ID > 0 {
			actor.APIKey = apiKey
			return actor, nil
		}
		l.logger.Debug().Msg("malformed api key cache entry")
		l.cache.Invalidate(ctx, apiKey)
	}

	actor, err := l.repo.FindByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	l.cache.Set(ctx, apiKey, snapshot(actor))
	return actor, nil
}

// snapshot copies the fields worth caching; credentials stay out.
func snapshot(a *domain.Actor) *domain.Actor {
	s := *a
	s.PasswordHash = ""
	s.APIKey = ""
	return &s
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*domain.Actor, bool) { return nil, false }
func (noopCache) Set(context.Context, string, *domain.Actor)        {}
func (noopCache) Invalidate(context.Context, string)                {}
