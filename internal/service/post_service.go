package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"techblog/internal/cache"
	apperrors "techblog/internal/errors"
	"techblog/internal/model"
	"techblog/internal/repository"
	"techblog/internal/slug"
)

const (
	// PublicPageSize is the page size for public listings.
	PublicPageSize = 10
	// AdminPageSize is the page size for admin listings.
	AdminPageSize = 20

	postCacheTTL = 5 * time.Minute
)

// CreatePostInput carries the fields for creating a post.
type CreatePostInput struct {
	Title    string
	Content  string
	Excerpt  *string
	Status   model.PostStatus
	AuthorID uuid.UUID
}

// UpdatePostInput carries a partial post update. Nil pointers mean the field
// was absent. ExcerptSet distinguishes an explicit null excerpt from an
// absent key, since both arrive as a nil pointer.
type UpdatePostInput struct {
	Title      *string
	Excerpt    *string
	ExcerptSet bool
	Content    *string
	Status     *model.PostStatus
}

// Pagination is the page metadata attached to listings.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// PostPage is one page of posts plus pagination metadata.
type PostPage struct {
	Posts      []model.Post `json:"posts"`
	Pagination Pagination   `json:"pagination"`
}

// PostService owns the post publication lifecycle.
type PostService interface {
	Create(ctx context.Context, input CreatePostInput) (*model.PostSummary, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePostInput) (*model.PostSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	List(ctx context.Context, page int, publishedOnly bool) (*PostPage, error)
}

type postService struct {
	postRepo repository.PostRepository
	cache    *cache.Client
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, cache *cache.Client) PostService {
	return &postService{postRepo: postRepo, cache: cache}
}

func postCacheKey(slug string) string {
	return "post:slug:" + slug
}

// uniqueSlug derives a slug from title and probes storage until no other
// post uses it, appending -2, -3, ... on collision. The probe and the write
// are separate statements, so two concurrent creates with the same title can
// both pass the probe; the unique index on posts.slug is the backstop and
// the loser surfaces a storage failure.
func (s *postService) uniqueSlug(ctx context.Context, title string, excludeID uuid.UUID) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "post-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
	}

	candidate := base
	for suffix := 1; ; suffix++ {
		if suffix > 1 {
			candidate = fmt.Sprintf("%s-%d", base, suffix)
		}
		exists, err := s.postRepo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("probe slug %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}
}

// Create validates input, derives a unique slug and persists the post.
// PublishedAt is stamped only when the post is born published.
func (s *postService) Create(ctx context.Context, input CreatePostInput) (*model.PostSummary, error) {
	if input.Title == "" || input.Content == "" {
		return nil, apperrors.NewValidation("title and content are required")
	}

	status := input.Status
	if status == "" {
		status = model.PostStatusDraft
	}
	if !status.Valid() {
		return nil, apperrors.NewValidation("invalid post status")
	}

	postSlug, err := s.uniqueSlug(ctx, input.Title, uuid.Nil)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:    input.Title,
		Slug:     postSlug,
		Excerpt:  input.Excerpt,
		Content:  input.Content,
		Status:   status,
		AuthorID: input.AuthorID,
	}
	if status == model.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	summary := post.Summary()
	return &summary, nil
}

// Update applies a partial update. Title changes recompute the slug
// (excluding the post itself from the probe); an excerpt key overwrites even
// when null; content overwrites only when non-empty; status changes keep the
// publish-timestamp invariant: entering PUBLISHED stamps PublishedAt once,
// leaving it clears the timestamp.
func (s *postService) Update(ctx context.Context, id uuid.UUID, input UpdatePostInput) (*model.PostSummary, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	oldSlug := post.Slug
	changed := false

	if input.Title != nil {
		newSlug, err := s.uniqueSlug(ctx, *input.Title, post.ID)
		if err != nil {
			return nil, err
		}
		post.Title = *input.Title
		post.Slug = newSlug
		changed = true
	}

	if input.ExcerptSet {
		post.Excerpt = input.Excerpt
		changed = true
	}

	if input.Content != nil && *input.Content != "" {
		post.Content = *input.Content
		changed = true
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidation("invalid post status")
		}
		post.Status = *input.Status
		if post.Status == model.PostStatusPublished {
			if post.PublishedAt == nil {
				now := time.Now()
				post.PublishedAt = &now
			}
		} else {
			post.PublishedAt = nil
		}
		changed = true
	}

	if !changed {
		return nil, apperrors.NewValidation("no updates provided")
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	_ = s.cache.Delete(ctx, postCacheKey(oldSlug))
	if post.Slug != oldSlug {
		_ = s.cache.Delete(ctx, postCacheKey(post.Slug))
	}

	summary := post.Summary()
	return &summary, nil
}

// Delete removes a post; dependent comments cascade at the storage layer.
func (s *postService) Delete(ctx context.Context, id uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPostNotFound
		}
		return fmt.Errorf("load post: %w", err)
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}

	_ = s.cache.Delete(ctx, postCacheKey(post.Slug))
	return nil
}

// GetByID returns a post regardless of status (admin view).
func (s *postService) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	return post, nil
}

// GetBySlug returns a published post by slug, read through the cache.
func (s *postService) GetBySlug(ctx context.Context, postSlug string) (*model.Post, error) {
	if data, _ := s.cache.Get(ctx, postCacheKey(postSlug)); data != nil {
		var cached model.Post
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	post, err := s.postRepo.FindBySlug(ctx, postSlug, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	if payload, err := json.Marshal(post); err == nil {
		_ = s.cache.Set(ctx, postCacheKey(postSlug), payload, postCacheTTL)
	}
	return post, nil
}

// List returns one page of posts. Non-positive page numbers coerce to 1.
func (s *postService) List(ctx context.Context, page int, publishedOnly bool) (*PostPage, error) {
	if page < 1 {
		page = 1
	}
	pageSize := AdminPageSize
	if publishedOnly {
		pageSize = PublicPageSize
	}

	total, err := s.postRepo.Count(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	posts, err := s.postRepo.List(ctx, publishedOnly, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	return &PostPage{
		Posts: posts,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}
