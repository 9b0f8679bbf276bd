package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"techblog/internal/auth"
	"techblog/internal/errors"
	"techblog/internal/service"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateCommentRequest represents a comment creation request. Content limits
// are enforced again in the service after trimming.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// List godoc
// @Summary List visible comments for a published post
// @Tags comments
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {array} model.CommentView
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{slug}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.commentService.ListByPostSlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, comments)
}

// Create godoc
// @Summary Create a comment on a published post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Post slug"
// @Param request body CreateCommentRequest true "Comment content"
// @Success 201 {object} model.CommentView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{slug}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	subject := auth.SubjectFrom(c)
	if subject == nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthorized)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	comment, err := h.commentService.Create(c.Request().Context(), c.Param("slug"), subject.UserID, req.Content)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, comment)
}
