package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sbbdoc/board-api/internal/api/metrics"
	"github.com/sbbdoc/board-api/internal/core/auth"
	"github.com/sbbdoc/board-api/internal/core/domain"
)

const (
	AccessTokenCookie = "accessToken"
	APIKeyCookie      = "apiKey"
	// AccessTokenHeader carries a reissued access token back to header-only clients.
	AccessTokenHeader = "X-Access-Token"

	ctxResolved = "auth.resolved"
)

// ActorResolver turns request credentials into an actor.
type ActorResolver interface {
	Resolve(ctx context.Context, creds auth.Credentials) (auth.Resolved, error)
}

// Cookies configures the credential cookies written back to clients.
type Cookies struct {
	Secure bool
	// AccessTokenTTL bounds the accessToken cookie lifetime.
	AccessTokenTTL time.Duration
}

// Authenticate resolves the acting principal of every request and stores it
// in the echo context. It never rejects a request on its own: anonymous
// callers pass through and are stopped by RequireActor where needed.
func Authenticate(resolver ActorResolver, cookies Cookies, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			resolved, err := resolver.Resolve(c.Request().Context(), credentialsFrom(c.Request()))
			if err != nil {
				metrics.AuthResolutionErrorsTotal.Inc()
				log.Error().Err(err).Str("path", c.Path()).Msg("actor resolution failed")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "authentication temporarily unavailable")
			}

			metrics.AuthResolutionsTotal.WithLabelValues(string(resolved.Source)).Inc()
			if resolved.ReissuedToken != "" {
				metrics.AccessTokensReissuedTotal.Inc()
				c.SetCookie(cookies.accessToken(resolved.ReissuedToken))
				c.Response().Header().Set(AccessTokenHeader, resolved.ReissuedToken)
			}

			c.Set(ctxResolved, resolved)
			return next(c)
		}
	}
}

// credentialsFrom reads the Authorization header first and fills whatever it
// lacks from cookies. The header is either "Bearer <accessToken>" or
// "Bearer <apiKey> <accessToken>".
func credentialsFrom(r *http.Request) auth.Credentials {
	var creds auth.Credentials

	if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.Fields(h)
		if len(parts) >= 2 && strings.EqualFold(parts[0], "bearer") {
			switch len(parts) {
			case 2:
				creds.AccessToken = parts[1]
			case 3:
				creds.APIKey = parts[1]
				creds.AccessToken = parts[2]
			}
		}
	}

	if creds.APIKey == "" {
		if ck, err := r.Cookie(APIKeyCookie); err == nil {
			creds.APIKey = ck.Value
		}
	}
	if creds.AccessToken == "" {
		if ck, err := r.Cookie(AccessTokenCookie); err == nil {
			creds.AccessToken = ck.Value
		}
	}
	return creds
}

// Resolution returns what Authenticate stored for this request.
func Resolution(c echo.Context) auth.Resolved {
	r, _ := c.Get(ctxResolved).(auth.Resolved)
	return r
}

// Actor returns the acting principal, or nil for anonymous callers.
func Actor(c echo.Context) *domain.Actor {
	return Resolution(c).Actor
}

// SetSession writes both credential cookies.
func SetSession(c echo.Context, cookies Cookies, apiKey, accessToken string) {
	c.SetCookie(cookies.apiKey(apiKey))
	c.SetCookie(cookies.accessToken(accessToken))
}

// ClearSession expires both credential cookies. Tokens already issued stay
// valid until their exp claim.
func ClearSession(c echo.Context, cookies Cookies) {
	for _, name := range []string{APIKeyCookie, AccessTokenCookie} {
		ck := cookies.base(name, "")
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
		c.SetCookie(ck)
	}
}

func (k Cookies) accessToken(value string) *http.Cookie {
	ck := k.base(AccessTokenCookie, value)
	if k.AccessTokenTTL > 0 {
		ck.MaxAge = int(k.AccessTokenTTL / time.Second)
	}
	return ck
}

func (k Cookies) apiKey(value string) *http.Cookie {
	return k.base(APIKeyCookie, value)
}

func (k Cookies) base(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
