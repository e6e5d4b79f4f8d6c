// Package auth turns inbound credential material into an authenticated actor.
//
// Access tokens are short-lived HS256 JWTs carrying the actor id and username.
// The server keeps no record of issued tokens, so a token stays valid until
// its exp claim even after logout.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSecret is returned by NewCodec when no signing secret is configured.
var ErrMissingSecret = errors.New("auth: signing secret is not configured")

// Subject is what an access token asserts about its holder.
type Subject struct {
	ID       int64
	Username string
}

// Claims is the verified content of an access token.
type Claims struct {
	Subject
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// tokenClaims is the wire shape of the payload. The id is decoded straight
// into an int64 so it never passes through a float.
type tokenClaims struct {
	jwt.RegisteredClaims
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Validate is called by the jwt parser after the registered claims check.
func (c *tokenClaims) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("subject id out of range: %d", c.ID)
	}
	if c.Username == "" {
		return errors.New("subject username is empty")
	}
	return nil
}

// Codec signs and verifies access tokens with a symmetric secret.
type Codec struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// CodecOption customises a Codec.
type CodecOption func(*Codec)

// WithClock replaces the wall clock used for iat/exp and for expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// NewCodec creates a Codec. The secret is copied and never changes afterwards.
func NewCodec(secret string, defaultTTL time.Duration, opts ...CodecOption) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	c := &Codec{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DefaultTTL is the lifetime given to tokens minted by IssueAccessToken.
func (c *Codec) DefaultTTL() time.Duration { return c.defaultTTL }

// IssueAccessToken signs a token for subject with the default TTL.
func (c *Codec) IssueAccessToken(subject Subject) (string, error) {
	return c.Issue(subject, c.defaultTTL)
}

// Issue signs a token for subject that expires ttl from now.
func (c *Codec) Issue(subject Subject, ttl time.Duration) (string, error) {
	now := c.now()
	claims := &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		ID:       subject.ID,
		Username: subject.Username,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its claims.
// Every failure is an *InvalidTokenError.
func (c *Codec) Verify(token string) (Claims, error) {
	if token == "" {
		return Claims{}, &InvalidTokenError{Reason: ReasonMalformed, Err: errors.New("token is empty")}
	}

	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Claims{}, &InvalidTokenError{Reason: classify(err), Err: err}
	}

	return Claims{
		Subject:   Subject{ID: tc.ID, Username: tc.Username},
		IssuedAt:  numericTime(tc.IssuedAt),
		ExpiresAt: numericTime(tc.ExpiresAt),
	}, nil
}

func classify(err error) Reason {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ReasonBadSignature
	default:
		return ReasonMalformed
	}
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
