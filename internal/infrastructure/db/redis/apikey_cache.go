package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sbbdoc/board-api/internal/core/domain"
)

const defaultKeyTTL = 10 * time.Minute

// APIKeyCache keeps actor snapshots keyed by API key so repeat requests skip
// the actor store. Key format: apikey:<sha256(api key) hex>
//
// Redis failures are logged and reported as misses; the actor store stays
// the source of truth.
type APIKeyCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewAPIKeyCache creates an APIKeyCache wrapping the given Redis client.
func NewAPIKeyCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *APIKeyCache {
	if ttl <= 0 {
		ttl = defaultKeyTTL
	}
	return &APIKeyCache{client: client, ttl: ttl, log: log}
}

// cachedActor is the stored snapshot. Credentials are never written.
type cachedActor struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func toCached(a *domain.Actor) cachedActor {
	return cachedActor{
		ID:        a.ID,
		Username:  a.Username,
		Nickname:  a.Nickname,
		Email:     a.Email,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt.Unix(),
		UpdatedAt: a.UpdatedAt.Unix(),
	}
}

func (c cachedActor) toDomain() *domain.Actor {
	return &domain.Actor{
		ID:        c.ID,
		Username:  c.Username,
		Nickname:  c.Nickname,
		Email:     c.Email,
		Role:      domain.Role(c.Role),
		CreatedAt: time.Unix(c.CreatedAt, 0).UTC(),
		UpdatedAt: time.Unix(c.UpdatedAt, 0).UTC(),
	}
}

func (c *APIKeyCache) Get(ctx context.Context, apiKey string) (*domain.Actor, bool) {
	raw, err := c.client.Get(ctx, c.key(apiKey)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Msg("api key cache get failed")
		}
		return nil, false
	}
	var snap cachedActor
	if err := json.Unmarshal(raw, &snap); err != nil || snap.ID <= 0 {
		c.log.Warn().Err(err).Msg("api key cache holds a malformed entry")
		return nil, false
	}
	return snap.toDomain(), true
}

// Set remembers the actor for apiKey until the TTL expires.
func (c *APIKeyCache) Set(ctx context.Context, apiKey string, actor *domain.Actor) {
	raw, err := json.Marshal(toCached(actor))
	if err != nil {
		c.log.Warn().Err(err).Int64("actor_id", actor.ID).Msg("api key cache encode failed")
		return
	}
	if err := c.client.Set(ctx, c.key(apiKey), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Int64("actor_id", actor.ID).Msg("api key cache set failed")
	}
}

func (c *APIKeyCache) Invalidate(ctx context.Context, apiKey string) {
	if err := c.client.Del(ctx, c.key(apiKey)).Err(); err != nil {
		c.log.Warn().Err(err).Msg("api key cache invalidate failed")
	}
}

// key hashes the API key so raw credentials never reach Redis.
func (c *APIKeyCache) key(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return "apikey:" + hex.EncodeToString(sum[:])
}
