package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"techblog/internal/errors"
	"techblog/internal/service"
)

// PostHandler handles the public post read surface.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// pageParam reads the page query parameter, coercing anything invalid or
// non-positive to 1.
func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ListPublished godoc
// @Summary List published posts
// @Tags posts
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} service.PostPage
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) ListPublished(c echo.Context) error {
	page, err := h.postService.List(c.Request().Context(), pageParam(c), true)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, page)
}

// GetBySlug godoc
// @Summary Fetch a published post by slug
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{slug} [get]
func (h *PostHandler) GetBySlug(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "missing post slug",
			Code:  "VALIDATION_ERROR",
		})
	}

	post, err := h.postService.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, post)
}
