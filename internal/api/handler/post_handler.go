package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sbbdoc/board-api/internal/api/metrics"
	"github.com/sbbdoc/board-api/internal/core/ports"
	"github.com/sbbdoc/board-api/internal/core/search"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
	pager   search.Paginator
}

func NewPostHandler(service ports.PostService, pager search.Paginator) *PostHandler {
	return &PostHandler{service: service, pager: pager}
}

// List handles GET /api/v1/posts. Only listed posts are returned.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        page               query     int     false  "1-based page"
// @Param        pageSize           query     int     false  "Page size"
// @Param        searchKeywordType  query     string  false  "subject, content or author"
// @Param        searchKeyword      query     string  false  "Keyword"
// @Success      200                {object}  pageResponse[postItemResponse]
// @Failure      400                {object}  errorResponse
// @Router       /api/v1/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	req, err := searchRequest(c, h.pager)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(page, toPostItem))
}

// Statistics handles GET /api/v1/posts/statistics.
//
// @Summary      Post statistics
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  postStatisticsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/posts/statistics [get]
func (h *PostHandler) Statistics(c echo.Context) error {
	st, err := h.service.Statistics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatisticsResponse(st))
}

// Get handles GET /api/v1/posts/:id.
//
// @Summary      Get a post
// @Description  Unpublished posts are visible to their author only. The ETag carries the version.
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	view, err := h.service.Get(c.Request().Context(), ctxActor(c), id)
	if err != nil {
		return err
	}

	setETag(c, view.Post.Version)
	return c.JSON(http.StatusOK, toPostResponse(view))
}

// Create handles POST /api/v1/posts.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postRequest  true  "Post"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.Create(c.Request().Context(), actor, toPostInput(req))
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.WithLabelValues(strconv.FormatBool(view.Post.Published)).Inc()
	setETag(c, view.Post.Version)
	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/posts/"+strconv.FormatInt(view.Post.ID, 10))
	return c.JSON(http.StatusCreated, toPostResponse(view))
}

// Modify handles PUT /api/v1/posts/:id.
//
// @Summary      Modify a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int          true  "Post id"
// @Param        If-Match  header    string       true  "Version from the ETag"
// @Param        body      body      postRequest  true  "Post"
// @Success      200       {object}  postResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Failure      428       {object}  errorResponse
// @Router       /api/v1/posts/{id} [put]
func (h *PostHandler) Modify(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	version, err := ifMatch(c)
	if err != nil {
		return err
	}
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.Modify(c.Request().Context(), actor, id, version, toPostInput(req))
	if err != nil {
		return err
	}

	setETag(c, view.Post.Version)
	return c.JSON(http.StatusOK, toPostResponse(view))
}

// Delete handles DELETE /api/v1/posts/:id. The post's comments go with it.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id        path      int     true  "Post id"
// @Param        If-Match  header    string  true  "Version from the ETag"
// @Success      204
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Failure      428       {object}  errorResponse
// @Router       /api/v1/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	version, err := ifMatch(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, id, version); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
