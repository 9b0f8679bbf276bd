package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "techblog/internal/errors"
	"techblog/internal/model"
)

func newPostService(repo *MockPostRepository) PostService {
	return NewPostService(repo, nil)
}

func strptr(s string) *string {
	return &s
}

func statusptr(s model.PostStatus) *model.PostStatus {
	return &s
}

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()

	t.Run("missing title fails before any storage call", func(t *testing.T) {
		repo := new(MockPostRepository)
		svc := newPostService(repo)

		_, err := svc.Create(ctx, CreatePostInput{Content: "x", AuthorID: authorID})

		var validation *apperrors.ValidationError
		assert.ErrorAs(t, err, &validation)
		repo.AssertNotCalled(t, "SlugExists", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("draft post gets slug and no publish timestamp", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("SlugExists", ctx, "hello-world", uuid.Nil).Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*model.Post")).Return(nil)
		svc := newPostService(repo)

		summary, err := svc.Create(ctx, CreatePostInput{
			Title:    "Hello World",
			Content:  "x",
			AuthorID: authorID,
		})

		assert.NoError(t, err)
		assert.Equal(t, "hello-world", summary.Slug)
		assert.Equal(t, model.PostStatusDraft, summary.Status)
		assert.Nil(t, summary.PublishedAt)
		repo.AssertExpectations(t)
	})

	t.Run("published post gets publish timestamp", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("SlugExists", ctx, "hello-world", uuid.Nil).Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*model.Post")).Return(nil)
		svc := newPostService(repo)

		summary, err := svc.Create(ctx, CreatePostInput{
			Title:    "Hello World",
			Content:  "x",
			Status:   model.PostStatusPublished,
			AuthorID: authorID,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.PostStatusPublished, summary.Status)
		assert.NotNil(t, summary.PublishedAt)
	})

	t.Run("slug collision appends suffix starting at 2", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("SlugExists", ctx, "hello-world", uuid.Nil).Return(true, nil)
		repo.On("SlugExists", ctx, "hello-world-2", uuid.Nil).Return(true, nil)
		repo.On("SlugExists", ctx, "hello-world-3", uuid.Nil).Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*model.Post")).Return(nil)
		svc := newPostService(repo)

		summary, err := svc.Create(ctx, CreatePostInput{
			Title:    "Hello World",
			Content:  "x",
			AuthorID: authorID,
		})

		assert.NoError(t, err)
		assert.Equal(t, "hello-world-3", summary.Slug)
		repo.AssertExpectations(t)
	})

	t.Run("unrepresentable title falls back to time-derived slug", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("SlugExists", ctx, mock.MatchedBy(func(s string) bool {
			return len(s) > len("post-") && s[:5] == "post-"
		}), uuid.Nil).Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*model.Post")).Return(nil)
		svc := newPostService(repo)

		summary, err := svc.Create(ctx, CreatePostInput{
			Title:    "中文标题",
			Content:  "x",
			AuthorID: authorID,
		})

		assert.NoError(t, err)
		assert.Contains(t, summary.Slug, "post-")
	})
}

func TestPostService_Update(t *testing.T) {
	ctx := context.Background()

	existingDraft := func(id uuid.UUID) *model.Post {
		return &model.Post{
			ID:      id,
			Title:   "Hello World",
			Slug:    "hello-world",
			Content: "x",
			Status:  model.PostStatusDraft,
		}
	}

	t.Run("unknown id fails with not found", func(t *testing.T) {
		repo := new(MockPostRepository)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, gorm.ErrRecordNotFound)
		svc := newPostService(repo)

		_, err := svc.Update(ctx, id, UpdatePostInput{Title: strptr("New")})

		assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
	})

	t.Run("empty payload fails without writing", func(t *testing.T) {
		repo := new(MockPostRepository)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(existingDraft(id), nil)
		svc := newPostService(repo)

		_, err := svc.Update(ctx, id, UpdatePostInput{})

		var validation *apperrors.ValidationError
		assert.ErrorAs(t, err, &validation)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("empty content alone counts as no update", func(t *testing.T) {
		repo := new(MockPostRepository)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(existingDraft(id), nil)
		svc := newPostService(repo)

		_, err := svc.Update(ctx, id, UpdatePostInput{Content: strptr("")})

		var validation *apperrors.ValidationError
		assert.ErrorAs(t, err, &validation)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("title change recomputes slug excluding self", func(t *testing.T) {
		repo := new(MockPostRepository)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(existingDraft(id), nil)
		repo.On("SlugExists", ctx, "fresh-title", id).Return(false, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*model.Post")).Return(nil)
		svc := newPostService(repo)

		summary, err := svc.Update(ctx, id, UpdatePostInput{Title: strptr("Fresh Title")})

		assert.NoError(t, err)
		assert.Equal(t, "fresh-title", summary.Slug)
		repo.AssertExpectations(t)
	})

	t.Run("publish sets timestamp and unpublish clears it", func(t *testing.T) {
		repo := new(MockPostRepository)
		id := uuid.New()
		post := existingDraft(id)
		repo.On("FindByID", ctx, id).Return(post, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*model.Post")).Return(nil)
		svc := newPostService(repo)

		summary, err := svc.Update(ctx, id, UpdatePostInput{Status: statusptr(model.PostStatusPublished)})
		assert.NoError(t, err)
		assert.Equal(t, model.PostStatusPublished, summary.Status)
		assert.NotNil(t, summary.PublishedAt)

		summary, err = svc.Update(ctx, id, UpdatePostInput{Status: statusptr(model.PostStatusDraft)})
		assert.NoError(t, err)
		assert.Equal(t, model.PostStatusDraft, summary.Status)
		assert.Nil(t, summary.PublishedAt)
	})

	t.Run("republishing keeps the original timestamp", func(t *testing.T) {
		repo := new(MockPostRepository)
		id := uuid.New()
		post := existingDraft(id)
		repo.On("FindByID", ctx, id).Return(post, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*model.Post")).Return(nil)
		svc := newPostService(repo)

		first, err := svc.Update(ctx, id, UpdatePostInput{Status: statusptr(model.PostStatusPublished)})
		assert.NoError(t, err)

		again, err := svc.Update(ctx, id, UpdatePostInput{
			Status:  statusptr(model.PostStatusPublished),
			Content: strptr("revised"),
		})
		assert.NoError(t, err)
		assert.Equal(t, first.PublishedAt, again.PublishedAt)
	})

	t.Run("explicit null excerpt clears the field", func(t *testing.T) {
		repo := new(MockPostRepository)
		id := uuid.New()
		post := existingDraft(id)
		excerpt := "old excerpt"
		post.Excerpt = &excerpt
		repo.On("FindByID", ctx, id).Return(post, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(p *model.Post) bool {
			return p.Excerpt == nil
		})).Return(nil)
		svc := newPostService(repo)

		_, err := svc.Update(ctx, id, UpdatePostInput{ExcerptSet: true})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestPostService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id fails with not found", func(t *testing.T) {
		repo := new(MockPostRepository)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, gorm.ErrRecordNotFound)
		svc := newPostService(repo)

		assert.ErrorIs(t, svc.Delete(ctx, id), apperrors.ErrPostNotFound)
	})

	t.Run("removes the post", func(t *testing.T) {
		repo := new(MockPostRepository)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(&model.Post{ID: id, Slug: "hello-world"}, nil)
		repo.On("Delete", ctx, id).Return(nil)
		svc := newPostService(repo)

		assert.NoError(t, svc.Delete(ctx, id))
		repo.AssertExpectations(t)
	})
}

func TestPostService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("coerces non-positive page to 1", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("Count", ctx, true).Return(int64(25), nil)
		repo.On("List", ctx, true, 0, PublicPageSize).Return([]model.Post{}, nil)
		svc := newPostService(repo)

		page, err := svc.List(ctx, -3, true)

		assert.NoError(t, err)
		assert.Equal(t, 1, page.Pagination.Page)
		assert.Equal(t, int64(3), page.Pagination.TotalPages)
		repo.AssertExpectations(t)
	})

	t.Run("admin listing uses the larger page size", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("Count", ctx, false).Return(int64(41), nil)
		repo.On("List", ctx, false, AdminPageSize, AdminPageSize).Return([]model.Post{}, nil)
		svc := newPostService(repo)

		page, err := svc.List(ctx, 2, false)

		assert.NoError(t, err)
		assert.Equal(t, AdminPageSize, page.Pagination.PageSize)
		assert.Equal(t, int64(3), page.Pagination.TotalPages)
		repo.AssertExpectations(t)
	})
}
