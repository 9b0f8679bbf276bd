package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"techblog/internal/auth"
	"techblog/internal/errors"
	"techblog/internal/model"
	"techblog/internal/service"
)

// AdminHandler handles the admin back office: post CRUD and aggregate stats.
// Authorization happens once at the route group; nothing here re-checks it.
type AdminHandler struct {
	postService  service.PostService
	statsService service.StatsService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(postService service.PostService, statsService service.StatsService) *AdminHandler {
	return &AdminHandler{postService: postService, statsService: statsService}
}

// CreatePostRequest represents an admin post creation request.
type CreatePostRequest struct {
	Title   string           `json:"title" validate:"required"`
	Content string           `json:"content" validate:"required"`
	Excerpt *string          `json:"excerpt"`
	Status  model.PostStatus `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

func postIDParam(c echo.Context) (uuid.UUID, *echo.HTTPError) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid post id",
			Code:  "VALIDATION_ERROR",
		})
	}
	return id, nil
}

// ListPosts godoc
// @Summary List all posts for the back office
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} service.PostPage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/posts [get]
func (h *AdminHandler) ListPosts(c echo.Context) error {
	page, err := h.postService.List(c.Request().Context(), pageParam(c), false)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, page)
}

// GetPost godoc
// @Summary Fetch a post by id regardless of status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/posts/{id} [get]
func (h *AdminHandler) GetPost(c echo.Context) error {
	id, httpErr := postIDParam(c)
	if httpErr != nil {
		return httpErr
	}

	post, err := h.postService.GetByID(c.Request().Context(), id)
	if err != nil {
		mapped := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, post)
}

// CreatePost godoc
// @Summary Create a post
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePostRequest true "Post data"
// @Success 201 {object} model.PostSummary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/posts [post]
func (h *AdminHandler) CreatePost(c echo.Context) error {
	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	subject := auth.SubjectFrom(c)
	summary, err := h.postService.Create(c.Request().Context(), service.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		Status:   req.Status,
		AuthorID: subject.UserID,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, summary)
}

// UpdatePost godoc
// @Summary Partially update a post
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body object true "Partial post fields"
// @Success 200 {object} model.PostSummary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/posts/{id} [put]
func (h *AdminHandler) UpdatePost(c echo.Context) error {
	id, httpErr := postIDParam(c)
	if httpErr != nil {
		return httpErr
	}

	input, err := bindUpdatePostInput(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	summary, err := h.postService.Update(c.Request().Context(), id, *input)
	if err != nil {
		mapped := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, summary)
}

// bindUpdatePostInput decodes the partial update payload. The body is
// decoded twice: once into a key map to learn which fields were present
// (an explicit null excerpt clears the field, an absent key leaves it), and
// once into the typed request.
func bindUpdatePostInput(c echo.Context) (*service.UpdatePostInput, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, err
	}

	var req struct {
		Title   *string           `json:"title"`
		Excerpt *string           `json:"excerpt"`
		Content *string           `json:"content"`
		Status  *model.PostStatus `json:"status"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}

	input := &service.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	}
	if _, ok := keys["excerpt"]; ok {
		input.Excerpt = req.Excerpt
		input.ExcerptSet = true
	}
	return input, nil
}

// DeletePost godoc
// @Summary Delete a post and its comments
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/posts/{id} [delete]
func (h *AdminHandler) DeletePost(c echo.Context) error {
	id, httpErr := postIDParam(c)
	if httpErr != nil {
		return httpErr
	}

	if err := h.postService.Delete(c.Request().Context(), id); err != nil {
		mapped := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// GetStats godoc
// @Summary Aggregate entity counts for the dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Stats
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/stats [get]
func (h *AdminHandler) GetStats(c echo.Context) error {
	stats, err := h.statsService.GetStats(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, stats)
}
