package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"techblog/internal/model"
)

// CommentRepository defines comment persistence operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListVisibleTopLevel(ctx context.Context, postID uuid.UUID) ([]model.Comment, error)
	FindLatestByAuthor(ctx context.Context, authorID uuid.UUID) (*model.Comment, error)
	Count(ctx context.Context) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create creates a new comment.
func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListVisibleTopLevel returns visible top-level comments for a post, newest
// first, with the author loaded for the display projection.
func (r *commentRepository) ListVisibleTopLevel(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ? AND is_visible = ? AND parent_id IS NULL", postID, true).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// FindLatestByAuthor returns the author's most recent comment across all
// posts. Backs the cooldown check; gorm.ErrRecordNotFound means the author
// has never commented.
func (r *commentRepository) FindLatestByAuthor(ctx context.Context, authorID uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Count returns the total number of comments.
func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Comment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
