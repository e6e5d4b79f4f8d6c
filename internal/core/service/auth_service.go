package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbbdoc/board-api/internal/core/auth"
	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/ports"
)

// AuthService implements signup, login and API key rotation.
type AuthService struct {
	repo   ports.ActorRepository
	codec  *auth.Codec
	cache  ports.APIKeyCache
	admins map[string]struct{}
	logger zerolog.Logger
	now    func() time.Time
}

// NewAuthService builds an AuthService. Usernames listed in admins receive the
// admin role at signup. cache may be nil.
func NewAuthService(repo ports.ActorRepository, codec *auth.Codec, cache ports.APIKeyCache, admins []string, logger zerolog.Logger) *AuthService {
	set := make(map[string]struct{}, len(admins))
	for _, name := range admins {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = struct{}{}
		}
	}
	if cache == nil {
		cache = noopCache{}
	}
	return &AuthService{repo: repo, codec: codec, cache: cache, admins: set, logger: logger, now: time.Now}
}

func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*domain.Actor, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if input.Nickname == "" {
		input.Nickname = input.Username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := domain.RoleStandard
	if _, ok := s.admins[input.Username]; ok {
		role = domain.RoleAdmin
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Actor{
		Username:     input.Username,
		Nickname:     input.Nickname,
		Email:        input.Email,
		PasswordHash: string(hash),
		APIKey:       uuid.NewString(),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("actor_id", created.ID).Str("username", created.Username).Msg("actor signed up")
	return created, nil
}

// Login checks the password and returns the actor's API key plus a fresh
// access token. An unknown username is ErrUnknownCredential, a wrong password
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	actor, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrActorNotFound) {
		return nil, domain.ErrUnknownCredential
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.session(actor)
}

func (s *AuthService) RotateAPIKey(ctx context.Context, actor *domain.Actor) (*ports.Session, error) {
	if actor == nil {
		return nil, domain.ErrAuthenticationRequired
	}

	old := actor.APIKey
	next := uuid.NewString()
	if err := s.repo.UpdateAPIKey(ctx, actor.ID, next); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, old)

	rotated := *actor
	rotated.APIKey = next
	rotated.UpdatedAt = s.now().UTC()

	s.logger.Info().Int64("actor_id", actor.ID).Msg("api key rotated")
	return s.session(&rotated)
}

func (s *AuthService) session(actor *domain.Actor) (*ports.Session, error) {
	token, err := s.codec.IssueAccessToken(auth.Subject{ID: actor.ID, Username: actor.Username})
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	return &ports.Session{Actor: actor, APIKey: actor.APIKey, AccessToken: token}, nil
}
