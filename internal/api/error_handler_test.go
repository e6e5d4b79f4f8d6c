package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/search"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid id"), http.StatusBadRequest},
		{"post not found", domain.ErrPostNotFound, http.StatusNotFound},
		{"wrapped comment not found", fmt.Errorf("load: %w", domain.ErrCommentNotFound), http.StatusNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"anonymous", domain.ErrAuthenticationRequired, http.StatusUnauthorized},
		{"unknown username", domain.ErrUnknownCredential, http.StatusUnauthorized},
		{"bad password", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"username taken", domain.ErrActorExists, http.StatusConflict},
		{"stale version", domain.ErrConflict, http.StatusConflict},
		{"missing version", domain.ErrVersionRequired, http.StatusPreconditionRequired},
		{"keyword type", fmt.Errorf("%w: %q", search.ErrUnknownKeywordType, "x"), http.StatusBadRequest},
		{"unexpected", errors.New("mongo exploded"), http.StatusInternalServerError},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/posts/1", nil), rec)

			h(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
				t.Fatalf("expected error envelope, got %q", rec.Body.String())
			}
			if tc.code == http.StatusInternalServerError && body.Error != "internal server error" {
				t.Errorf("internal details leaked: %q", body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/api/v1/posts/1", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrPostNotFound, c)

	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Fatalf("expected bare 404, got %d %q", rec.Code, rec.Body.String())
	}
}
