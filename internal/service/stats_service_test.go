package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsService_GetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("merges the three counts", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		postRepo := new(MockPostRepository)
		commentRepo := new(MockCommentRepository)
		userRepo.On("Count", ctx).Return(int64(3), nil)
		postRepo.On("Count", ctx, false).Return(int64(7), nil)
		commentRepo.On("Count", ctx).Return(int64(42), nil)
		svc := NewStatsService(userRepo, postRepo, commentRepo)

		stats, err := svc.GetStats(ctx)

		assert.NoError(t, err)
		assert.Equal(t, &Stats{Users: 3, Posts: 7, Comments: 42}, stats)
	})

	t.Run("propagates a failing count", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		postRepo := new(MockPostRepository)
		commentRepo := new(MockCommentRepository)
		userRepo.On("Count", ctx).Return(int64(0), assert.AnError)
		postRepo.On("Count", ctx, false).Return(int64(7), nil)
		commentRepo.On("Count", ctx).Return(int64(42), nil)
		svc := NewStatsService(userRepo, postRepo, commentRepo)

		_, err := svc.GetStats(ctx)

		assert.Error(t, err)
	})
}
