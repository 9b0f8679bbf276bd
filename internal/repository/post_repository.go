package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"techblog/internal/model"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.Post, error)
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, publishedOnly bool, offset, limit int) ([]model.Post, error)
	Count(ctx context.Context, publishedOnly bool) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create creates a new post.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Update persists all fields of an existing post.
func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// FindByID finds a post by ID regardless of status.
func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindBySlug finds a post by slug. With publishedOnly the lookup is filtered
// to published posts, which is the only view public readers ever get.
func (r *postRepository) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.Post, error) {
	query := r.db.WithContext(ctx).Preload("Author").Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("status = ?", model.PostStatusPublished)
	}

	var post model.Post
	if err := query.First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// SlugExists reports whether any post other than excludeID already uses slug.
// Pass uuid.Nil to probe without an exclusion (creation path).
func (r *postRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.Post{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes a post. Dependent comments go with it through the cascading
// foreign key. Deleting a missing id reports gorm.ErrRecordNotFound.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns a page of posts. Public listings carry only published posts
// ordered by publish time; admin listings carry everything ordered by
// creation time.
func (r *postRepository) List(ctx context.Context, publishedOnly bool, offset, limit int) ([]model.Post, error) {
	query := r.db.WithContext(ctx).Model(&model.Post{})
	if publishedOnly {
		query = query.Preload("Author").
			Where("status = ?", model.PostStatusPublished).
			Order("published_at DESC")
	} else {
		query = query.Order("created_at DESC")
	}

	var posts []model.Post
	if err := query.Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Count returns the number of posts, optionally restricted to published ones.
func (r *postRepository) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Post{})
	if publishedOnly {
		query = query.Where("status = ?", model.PostStatusPublished)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
