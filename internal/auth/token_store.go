package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"techblog/internal/cache"
	"techblog/internal/model"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	accessTokenKeyPrefix  = "blacklist:access_token:"
)

// SessionData is the payload kept in Redis per refresh token.
type SessionData struct {
	UserID string     `json:"user_id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
}

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, data SessionData, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (*SessionData, error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore handles storage and retrieval of tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken stores a refresh token session in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, data SessionData, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}

	key := refreshTokenKeyPrefix + tokenID
	return s.cache.Set(ctx, key, payload, ttl)
}

// GetRefreshToken retrieves refresh token session data from Redis.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (*SessionData, error) {
	key := refreshTokenKeyPrefix + tokenID
	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == nil {
		return nil, fmt.Errorf("refresh token not found")
	}

	var data SessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal session data: %w", err)
	}
	return &data, nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	key := refreshTokenKeyPrefix + tokenID
	return s.cache.Delete(ctx, key)
}

// BlacklistAccessToken adds an access token to the blacklist until it expires.
func (s *TokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	key := accessTokenKeyPrefix + tokenID
	// Store a simple marker
	return s.cache.Set(ctx, key, []byte("1"), ttl)
}

// IsAccessTokenBlacklisted checks if an access token is blacklisted.
func (s *TokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	key := accessTokenKeyPrefix + tokenID
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return false, nil // Not blacklisted if error (fail safe)
	}
	return data != nil, nil
}
