package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sbbdoc/board-api/internal/api/middleware"
	"github.com/sbbdoc/board-api/internal/core/auth"
	"github.com/sbbdoc/board-api/internal/core/domain"
)

type fixedResolver struct {
	actor *domain.Actor
}

func (r fixedResolver) Resolve(context.Context, auth.Credentials) (auth.Resolved, error) {
	if r.actor == nil {
		return auth.Resolved{Source: auth.SourceAnonymous}, nil
	}
	return auth.Resolved{Actor: r.actor, Source: auth.SourceAccessToken}, nil
}

// newContext builds an echo context whose resolved actor is actor (nil for
// anonymous). Path params are set from the name/value pairs in params.
func newContext(t *testing.T, method, target, body string, actor *domain.Actor, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if len(params)%2 != 0 {
		t.Fatalf("params must be name/value pairs")
	}
	var names, values []string
	for i := 0; i < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	mw := middleware.Authenticate(fixedResolver{actor: actor}, middleware.Cookies{}, zerolog.Nop())
	if err := mw(func(echo.Context) error { return nil })(c); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	return c, rec
}
