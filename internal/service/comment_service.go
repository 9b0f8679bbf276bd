package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "techblog/internal/errors"
	"techblog/internal/model"
	"techblog/internal/repository"
)

const (
	// CommentCooldown is the minimum time between an author's comments.
	CommentCooldown = 10 * time.Second
	// maxCommentLength caps comment content after trimming.
	maxCommentLength = 1000
)

// CommentService owns comment creation and visibility rules.
type CommentService interface {
	ListByPostSlug(ctx context.Context, postSlug string) ([]model.CommentView, error)
	Create(ctx context.Context, postSlug string, authorID uuid.UUID, rawContent string) (*model.CommentView, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, userRepo repository.UserRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// ListByPostSlug returns visible top-level comments for a published post,
// newest first.
func (s *commentService) ListByPostSlug(ctx context.Context, postSlug string) ([]model.CommentView, error) {
	post, err := s.postRepo.FindBySlug(ctx, postSlug, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	comments, err := s.commentRepo.ListVisibleTopLevel(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	views := make([]model.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, comments[i].View())
	}
	return views, nil
}

// Create validates, sanitizes and persists a comment against a published
// post. The author's previous comment sets a cooldown: attempts inside
// CommentCooldown fail with the whole seconds remaining, rounded up.
//
// The cooldown check and the insert are separate statements, so concurrent
// requests from the same author can slip more than one comment into the
// window. Best-effort rate limit, not a hard guarantee.
func (s *commentService) Create(ctx context.Context, postSlug string, authorID uuid.UUID, rawContent string) (*model.CommentView, error) {
	content := strings.TrimSpace(rawContent)
	if content == "" {
		return nil, apperrors.NewValidation("comment content must not be empty")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, apperrors.NewValidation("comment content must not exceed 1000 characters")
	}

	content = stripMarkup(content)
	if content == "" {
		return nil, apperrors.NewValidation("comment content must not be empty")
	}

	post, err := s.postRepo.FindBySlug(ctx, postSlug, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	latest, err := s.commentRepo.FindLatestByAuthor(ctx, authorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load latest comment: %w", err)
	}
	if latest != nil {
		elapsed := time.Since(latest.CreatedAt)
		if elapsed < CommentCooldown {
			remaining := int(math.Ceil((CommentCooldown - elapsed).Seconds()))
			return nil, &apperrors.RateLimitedError{Seconds: remaining}
		}
	}

	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load author: %w", err)
	}

	comment := &model.Comment{
		Content:   content,
		PostID:    post.ID,
		AuthorID:  authorID,
		IsVisible: true,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	comment.Author = *author
	view := comment.View()
	return &view, nil
}

// stripMarkup reduces content to plain text: tags are dropped, entities are
// decoded, whitespace is re-trimmed.
func stripMarkup(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(html.UnescapeString(b.String()))
}
