package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sbbdoc/board-api/internal/api/middleware"
	"github.com/sbbdoc/board-api/internal/core/domain"
	"github.com/sbbdoc/board-api/internal/core/ports"
	"github.com/sbbdoc/board-api/internal/core/search"
)

type UserHandler struct {
	authService ports.AuthService
	postService ports.PostService
	pager       search.Paginator
	cookies     middleware.Cookies
}

func NewUserHandler(authService ports.AuthService, postService ports.PostService, pager search.Paginator, cookies middleware.Cookies) *UserHandler {
	return &UserHandler{authService: authService, postService: postService, pager: pager, cookies: cookies}
}

// SignUp creates a new actor account.
//
// @Summary      Sign up
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  actorResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/users/sign-up [post]
func (h *UserHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	actor, err := h.authService.Signup(c.Request().Context(), toSignupInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
		}
		return err
	}

	return c.JSON(http.StatusCreated, toActorResponse(actor))
}

// Login verifies a password and starts a session.
//
// @Summary      Login
// @Description  Sets the accessToken and apiKey cookies and returns the same credentials in the body.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	middleware.SetSession(c, h.cookies, session.APIKey, session.AccessToken)
	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// Logout clears the credential cookies.
//
// @Summary      Logout
// @Description  Issued access tokens remain valid until they expire.
// @Tags         users
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/v1/users/logout [delete]
func (h *UserHandler) Logout(c echo.Context) error {
	middleware.ClearSession(c, h.cookies)
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Me returns the caller's profile.
//
// @Summary      Current actor
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  actorResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toActorResponse(actor))
}

// MyPosts lists every post of the caller, listed or not.
//
// @Summary      My posts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page               query     int     false  "1-based page"
// @Param        pageSize           query     int     false  "Page size"
// @Param        searchKeywordType  query     string  false  "subject, content or author"
// @Param        searchKeyword      query     string  false  "Keyword"
// @Success      200                {object}  pageResponse[postItemResponse]
// @Failure      400                {object}  errorResponse
// @Failure      401                {object}  errorResponse
// @Router       /api/v1/users/me/posts [get]
func (h *UserHandler) MyPosts(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	req, err := searchRequest(c, h.pager)
	if err != nil {
		return err
	}

	page, err := h.postService.ListMine(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(page, toPostItem))
}

// RotateAPIKey replaces the caller's API key.
//
// @Summary      Rotate API key
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/users/me/api-key [post]
func (h *UserHandler) RotateAPIKey(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	session, err := h.authService.RotateAPIKey(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	middleware.SetSession(c, h.cookies, session.APIKey, session.AccessToken)
	return c.JSON(http.StatusOK, toSessionResponse(session))
}
