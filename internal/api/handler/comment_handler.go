package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sbbdoc/board-api/internal/api/metrics"
	"github.com/sbbdoc/board-api/internal/core/ports"
	"github.com/sbbdoc/board-api/internal/core/search"
)

// CommentHandler handles comments nested under /api/v1/posts/:postId.
type CommentHandler struct {
	service ports.CommentService
	pager   search.Paginator
}

func NewCommentHandler(service ports.CommentService, pager search.Paginator) *CommentHandler {
	return &CommentHandler{service: service, pager: pager}
}

// List handles GET /api/v1/posts/:postId/comments.
//
// @Summary      List comments of a post
// @Tags         comments
// @Produce      json
// @Param        postId         path      int     true   "Post id"
// @Param        page           query     int     false  "1-based page"
// @Param        pageSize       query     int     false  "Page size"
// @Param        searchKeyword  query     string  false  "Matches comment content"
// @Success      200            {object}  pageResponse[commentResponse]
// @Failure      403            {object}  errorResponse
// @Failure      404            {object}  errorResponse
// @Router       /api/v1/posts/{postId}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}
	req, err := searchRequest(c, h.pager)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ctxActor(c), postID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(page, toCommentResponse))
}

// Create handles POST /api/v1/posts/:postId/comments.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      int             true  "Post id"
// @Param        body    body      commentRequest  true  "Comment"
// @Success      201     {object}  commentResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /api/v1/posts/{postId}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.Create(c.Request().Context(), actor, postID, req.Content)
	if err != nil {
		return err
	}

	metrics.CommentsCreatedTotal.Inc()
	setETag(c, view.Comment.Version)
	return c.JSON(http.StatusCreated, toCommentResponse(*view))
}

// Modify handles PUT /api/v1/posts/:postId/comments/:id.
//
// @Summary      Modify a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId    path      int             true  "Post id"
// @Param        id        path      int             true  "Comment id"
// @Param        If-Match  header    string          true  "Version from the ETag"
// @Param        body      body      commentRequest  true  "Comment"
// @Success      200       {object}  commentResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Failure      428       {object}  errorResponse
// @Router       /api/v1/posts/{postId}/comments/{id} [put]
func (h *CommentHandler) Modify(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "postId")
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
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.Modify(c.Request().Context(), actor, postID, id, version, req.Content)
	if err != nil {
		return err
	}

	setETag(c, view.Comment.Version)
	return c.JSON(http.StatusOK, toCommentResponse(*view))
}

// Delete handles DELETE /api/v1/posts/:postId/comments/:id.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        postId    path      int     true  "Post id"
// @Param        id        path      int     true  "Comment id"
// @Param        If-Match  header    string  true  "Version from the ETag"
// @Success      204
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Failure      428       {object}  errorResponse
// @Router       /api/v1/posts/{postId}/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "postId")
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

	if err := h.service.Delete(c.Request().Context(), actor, postID, id, version); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
