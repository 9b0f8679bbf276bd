package service

import (
	"context"
	"fmt"
	"sync"

	"techblog/internal/repository"
)

// Stats is the admin dashboard overview: one count per entity.
type Stats struct {
	Users    int64 `json:"users"`
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
}

// StatsService reports aggregate counts across entities.
type StatsService interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type statsService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

// NewStatsService creates a new stats service.
func NewStatsService(userRepo repository.UserRepository, postRepo repository.PostRepository, commentRepo repository.CommentRepository) StatsService {
	return &statsService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// GetStats runs the three counts concurrently; they are independent reads.
// The first error wins.
func (s *statsService) GetStats(ctx context.Context) (*Stats, error) {
	var (
		stats    Stats
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	count := func(name string, fn func() (int64, error), dst *int64) {
		defer wg.Done()
		n, err := fn()
		mu.Lock()
		defer mu.Unlock()
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("count %s: %w", name, err)
			return
		}
		*dst = n
	}

	wg.Add(3)
	go count("users", func() (int64, error) { return s.userRepo.Count(ctx) }, &stats.Users)
	go count("posts", func() (int64, error) { return s.postRepo.Count(ctx, false) }, &stats.Posts)
	go count("comments", func() (int64, error) { return s.commentRepo.Count(ctx) }, &stats.Comments)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return &stats, nil
}
