package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sbbdoc/board-api/internal/core/auth"
	"github.com/sbbdoc/board-api/internal/core/domain"
)

type stubResolver struct {
	resolveFn func(ctx context.Context, creds auth.Credentials) (auth.Resolved, error)
}

func (s *stubResolver) Resolve(ctx context.Context, creds auth.Credentials) (auth.Resolved, error) {
	return s.resolveFn(ctx, creds)
}

func runAuthenticate(t *testing.T, resolver ActorResolver, req *http.Request, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Authenticate(resolver, Cookies{AccessTokenTTL: time.Hour}, zerolog.Nop())
	if err := mw(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthenticate_CredentialSources(t *testing.T) {
	cases := []struct {
		name   string
		header string
		cookie map[string]string
		want   auth.Credentials
	}{
		{"bearer token", "Bearer tok", nil, auth.Credentials{AccessToken: "tok"}},
		{"bearer key and token", "Bearer key tok", nil, auth.Credentials{APIKey: "key", AccessToken: "tok"}},
		{"lowercase scheme", "bearer tok", nil, auth.Credentials{AccessToken: "tok"}},
		{"cookies only", "", map[string]string{APIKeyCookie: "ck-key", AccessTokenCookie: "ck-tok"}, auth.Credentials{APIKey: "ck-key", AccessToken: "ck-tok"}},
		{"header token plus cookie key", "Bearer tok", map[string]string{APIKeyCookie: "ck-key"}, auth.Credentials{APIKey: "ck-key", AccessToken: "tok"}},
		{"foreign scheme ignored", "Token abc", nil, auth.Credentials{}},
		{"nothing", "", nil, auth.Credentials{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			for name, value := range tc.cookie {
				req.AddCookie(&http.Cookie{Name: name, Value: value})
			}

			var got auth.Credentials
			resolver := &stubResolver{resolveFn: func(_ context.Context, creds auth.Credentials) (auth.Resolved, error) {
				got = creds
				return auth.Resolved{Source: auth.SourceAnonymous}, nil
			}}

			rec := runAuthenticate(t, resolver, req, func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestAuthenticate_SetsActor(t *testing.T) {
	alice := &domain.Actor{ID: 5, Username: "alice"}
	resolver := &stubResolver{resolveFn: func(context.Context, auth.Credentials) (auth.Resolved, error) {
		return auth.Resolved{Actor: alice, Source: auth.SourceAccessToken}, nil
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")

	called := false
	rec := runAuthenticate(t, resolver, req, func(c echo.Context) error {
		called = true
		if Actor(c) != alice {
			t.Fatalf("actor not set")
		}
		if Resolution(c).Source != auth.SourceAccessToken {
			t.Fatalf("source not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Header().Get(AccessTokenHeader) != "" {
		t.Errorf("no token must be written back on the fast path")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Errorf("no cookies expected, got %v", rec.Result().Cookies())
	}
}

func TestAuthenticate_AnonymousPassesThrough(t *testing.T) {
	resolver := &stubResolver{resolveFn: func(context.Context, auth.Credentials) (auth.Resolved, error) {
		return auth.Resolved{Source: auth.SourceAnonymous}, nil
	}}

	rec := runAuthenticate(t, resolver, httptest.NewRequest(http.MethodGet, "/", nil), func(c echo.Context) error {
		if Actor(c) != nil {
			t.Fatalf("expected anonymous")
		}
		return c.NoContent(http.StatusOK)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_WritesBackReissuedToken(t *testing.T) {
	resolver := &stubResolver{resolveFn: func(context.Context, auth.Credentials) (auth.Resolved, error) {
		return auth.Resolved{Actor: &domain.Actor{ID: 5}, ReissuedToken: "fresh", Source: auth.SourceAPIKey}, nil
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: APIKeyCookie, Value: "key"})

	rec := runAuthenticate(t, resolver, req, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if rec.Header().Get(AccessTokenHeader) != "fresh" {
		t.Errorf("expected %s header, got %q", AccessTokenHeader, rec.Header().Get(AccessTokenHeader))
	}
	var found *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == AccessTokenCookie {
			found = ck
		}
	}
	if found == nil || found.Value != "fresh" || !found.HttpOnly || found.MaxAge != 3600 {
		t.Errorf("unexpected access token cookie: %+v", found)
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	resolver := &stubResolver{resolveFn: func(context.Context, auth.Credentials) (auth.Resolved, error) {
		return auth.Resolved{}, errors.New("mongo down")
	}}

	rec := runAuthenticate(t, resolver, httptest.NewRequest(http.MethodGet, "/", nil), func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

type mapFinder map[int64]*domain.Actor

func (m mapFinder) FindByID(_ context.Context, id int64) (*domain.Actor, error) {
	if a, ok := m[id]; ok {
		return a, nil
	}
	return nil, domain.ErrActorNotFound
}

func (m mapFinder) FindByAPIKey(_ context.Context, key string) (*domain.Actor, error) {
	for _, a := range m {
		if a.APIKey == key {
			return a, nil
		}
	}
	return nil, domain.ErrActorNotFound
}

func TestAuthenticate_ExpiredTokenRefreshedFromAPIKey(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	codec, err := auth.NewCodec("mw-secret", time.Hour, auth.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	stale, err := codec.Issue(auth.Subject{ID: 5, Username: "alice"}, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	resolver := auth.NewResolver(codec, mapFinder{5: {ID: 5, Username: "alice", APIKey: "alice-key"}}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: stale})
	req.AddCookie(&http.Cookie{Name: APIKeyCookie, Value: "alice-key"})

	rec := runAuthenticate(t, resolver, req, func(c echo.Context) error {
		if a := Actor(c); a == nil || a.ID != 5 {
			t.Fatalf("expected actor 5, got %+v", a)
		}
		return c.NoContent(http.StatusOK)
	})

	fresh := rec.Header().Get(AccessTokenHeader)
	claims, err := codec.Verify(fresh)
	if err != nil {
		t.Fatalf("reissued token must verify: %v", err)
	}
	if claims.ID != 5 {
		t.Errorf("expected subject 5, got %d", claims.ID)
	}
}

func TestClearSession_ExpiresBothCookies(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)

	ClearSession(c, Cookies{Secure: true})

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	for _, ck := range cookies {
		if ck.MaxAge >= 0 || ck.Value != "" || !ck.Secure {
			t.Errorf("cookie %s not cleared: %+v", ck.Name, ck)
		}
	}
}
