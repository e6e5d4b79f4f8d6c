package ports

import (
	"context"

	"github.com/sbbdoc/board-api/internal/core/domain"
)

// SignupInput is the DTO passed from the transport layer to AuthService.
type SignupInput struct {
	Username string
	Password string
	Nickname string
	Email    string
}

// Session is the credential set handed to a client after login or key rotation.
type Session struct {
	Actor       *domain.Actor
	APIKey      string
	AccessToken string
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.Actor, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	// RotateAPIKey replaces the actor's API key and returns fresh credentials.
	RotateAPIKey(ctx context.Context, actor *domain.Actor) (*Session, error)
}
