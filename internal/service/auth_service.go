package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"techblog/internal/auth"
	apperrors "techblog/internal/errors"
	"techblog/internal/model"
	"techblog/internal/repository"
)

// bcryptCost matches the cost the seed script uses for the admin account.
const bcryptCost = 12

// AuthService handles registration and the credential-based session flow.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken, accessToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates a new user with hashed password. Emails are normalized to
// lower case before the uniqueness check so lookups stay case-insensitive.
func (s *authService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns access and refresh tokens. Lookup
// and compare failures collapse into the same invalid-credentials error.
func (s *authService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err = s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	session := auth.SessionData{UserID: user.ID.String(), Email: user.Email, Role: user.Role}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, session, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrUnauthorized
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", apperrors.ErrUnauthorized
	}

	session, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", apperrors.ErrUnauthorized
	}

	if session.UserID != claims.UserID || session.Email != claims.Email {
		return "", apperrors.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", apperrors.ErrUnauthorized
	}

	accessToken, err = s.jwtService.GenerateAccessToken(userID, session.Email, session.Role)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout invalidates the refresh token and blacklists the presented access
// token for its remaining lifetime.
func (s *authService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return apperrors.ErrUnauthorized
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, tokenID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	if accessToken == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateToken(accessToken)
	if err != nil || claims.ExpiresAt == nil {
		// Nothing to blacklist; the refresh token is already gone.
		return nil
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return s.tokenStore.BlacklistAccessToken(ctx, claims.ID, remaining)
}
