package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sbbdoc/board-api/internal/api/middleware"
	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/search"
)

// ctxActor returns the actor the Authenticate middleware resolved, or nil.
func ctxActor(c echo.Context) *domain.Actor {
	return middleware.Actor(c)
}

// requireActor is the handler-side guard for routes that need a signed-in
// caller. It duplicates RequireActor so handlers stay safe if mounted alone.
func requireActor(c echo.Context) (*domain.Actor, error) {
	actor := ctxActor(c)
	if actor == nil {
		return nil, domain.ErrAuthenticationRequired
	}
	return actor, nil
}

// pathID parses a positive int64 path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// ifMatch reads the expected resource version from If-Match. It accepts the
// ETag form ("3" or W/"3") and a bare number. Absent yields 0.
func ifMatch(c echo.Context) (int64, error) {
	raw := strings.TrimSpace(c.Request().Header.Get("If-Match"))
	if raw == "" {
		return 0, nil
	}
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid If-Match header")
	}
	return v, nil
}

func setETag(c echo.Context, version int64) {
	c.Response().Header().Set("ETag", `"`+strconv.FormatInt(version, 10)+`"`)
}

// searchRequest reads the listing query parameters. An absent pageSize takes
// the configured default; bounds are enforced by the paginator.
func searchRequest(c echo.Context, pager search.Paginator) (search.Request, error) {
	var (
		page        int
		size        = pager.DefaultPageSize()
		keywordType string
		keyword     string
	)
	err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("pageSize", &size).
		String("searchKeywordType", &keywordType).
		String("searchKeyword", &keyword).
		BindError()
	if err != nil {
		return search.Request{}, echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	kt, err := search.ParseKeywordType(keywordType)
	if err != nil {
		return search.Request{}, err
	}

	return search.Request{
		KeywordType: kt,
		Keyword:     strings.TrimSpace(keyword),
		Page:        page,
		PageSize:    size,
	}, nil
}
