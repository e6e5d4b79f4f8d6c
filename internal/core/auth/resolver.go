package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sbbdoc/board-api/internal/core/domain"
)

// ActorFinder is the part of the actor store the resolver needs. Both lookups
// return domain.ErrActorNotFound when nothing matches.
type ActorFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.Actor, error)
	FindByAPIKey(ctx context.Context, apiKey string) (*domain.Actor, error)
}

// Credentials is the raw credential material carried by a request.
type Credentials struct {
	APIKey      string
	AccessToken string
}

// Source records which path produced a resolution.
type Source string

const (
	SourceAccessToken Source = "access_token"
	SourceAPIKey      Source = "api_key"
	SourceAnonymous   Source = "anonymous"
)

// Resolved is the outcome of Resolve. Actor is nil for anonymous callers.
// ReissuedToken is non-empty only when the API key path minted a fresh
// access token that the transport must hand back to the client.
type Resolved struct {
	Actor         *domain.Actor
	ReissuedToken string
	Source        Source
}

// Anonymous reports whether no actor could be established.
func (r Resolved) Anonymous() bool { return r.Actor == nil }

// Resolver establishes the acting principal of a request.
type Resolver struct {
	codec  *Codec
	actors ActorFinder
	log    zerolog.Logger
}

// NewResolver returns a Resolver using codec for tokens and actors for lookups.
func NewResolver(codec *Codec, actors ActorFinder, log zerolog.Logger) *Resolver {
	return &Resolver{codec: codec, actors: actors, log: log}
}

// Resolve tries the access token first, then the API key, and otherwise
// returns an anonymous result. Invalid tokens and unknown keys are not
// errors; only store failures are returned.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials) (Resolved, error) {
	if creds.AccessToken != "" {
		actor, err := r.fromAccessToken(ctx, creds.AccessToken)
		if err != nil {
			return Resolved{}, err
		}
		if actor != nil {
			return Resolved{Actor: actor, Source: SourceAccessToken}, nil
		}
	}

	if creds.APIKey != "" {
		actor, err := r.actors.FindByAPIKey(ctx, creds.APIKey)
		switch {
		case errors.Is(err, domain.ErrActorNotFound):
			r.log.Debug().Msg("api key matches no actor")
		case err != nil:
			return Resolved{}, fmt.Errorf("resolve actor by api key: %w", err)
		default:
			token, err := r.codec.IssueAccessToken(Subject{ID: actor.ID, Username: actor.Username})
			if err != nil {
				return Resolved{}, fmt.Errorf("reissue access token: %w", err)
			}
			r.log.Info().Int64("actor_id", actor.ID).Msg("access token reissued from api key")
			return Resolved{Actor: actor, ReissuedToken: token, Source: SourceAPIKey}, nil
		}
	}

	return Resolved{Source: SourceAnonymous}, nil
}

// fromAccessToken returns (nil, nil) whenever the token cannot identify an
// existing actor, so the caller falls through to the API key.
func (r *Resolver) fromAccessToken(ctx context.Context, token string) (*domain.Actor, error) {
	claims, err := r.codec.Verify(token)
	if err != nil {
		r.log.Debug().Str("reason", string(TokenReason(err))).Msg("access token rejected")
		return nil, nil
	}

	actor, err := r.actors.FindByID(ctx, claims.ID)
	if errors.Is(err, domain.ErrActorNotFound) {
		r.log.Debug().Int64("actor_id", claims.ID).Msg("access token subject no longer exists")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve actor by token: %w", err)
	}
	return actor, nil
}
