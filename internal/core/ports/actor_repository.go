package ports

import (
	"context"

	"github.com/sbbdoc/board-api/internal/core/domain"
)

// ActorRepository persists actors. Lookups return domain.ErrActorNotFound
// when nothing matches.
type ActorRepository interface {
	// Create assigns the actor id. A taken username yields domain.ErrActorExists.
	Create(ctx context.Context, actor *domain.Actor) (*domain.Actor, error)
	FindByID(ctx context.Context, id int64) (*domain.Actor, error)
	FindByUsername(ctx context.Context, username string) (*domain.Actor, error)
	FindByAPIKey(ctx context.Context, apiKey string) (*domain.Actor, error)
	// FindByIDs returns the actors that exist among ids, keyed by id.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Actor, error)
	UpdateAPIKey(ctx context.Context, id int64, apiKey string) error
}

// APIKeyCache holds actor snapshots keyed by API key, so a hit answers an
// API key lookup without touching the actor store. Snapshots never carry the
// password hash. Implementations treat backend failures as misses.
type APIKeyCache interface {
	Get(ctx context.Context, apiKey string) (*domain.Actor, bool)
	Set(ctx context.Context, apiKey string, actor *domain.Actor)
	Invalidate(ctx context.Context, apiKey string)
}
