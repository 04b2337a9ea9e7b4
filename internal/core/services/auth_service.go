package services

import (
	"context"
	"errors"
	"log"

	"pdao-carelink/internal/adapters/persistence/models"
	"pdao-carelink/internal/adapters/persistence/repositories"
	"pdao-carelink/internal/config"
	"pdao-carelink/internal/pkg/jwt"
	"pdao-carelink/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// AuthService handles staff authentication business logic
type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// RegisterInput represents staff registration input (admin action)
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"`
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register creates a new staff account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	if !password.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role != "ADMIN" {
		role = "STAFF"
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     role,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Staff account created: %s (%s)", user.Username, user.Role)
	return user.ToResponse(), nil
}

// Login authenticates a staff member and issues a token pair
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token and issues a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	tokenHash := password.HashToken(refreshToken)
	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, ErrTokenRevoked
	}
	if stored.IsExpired() {
		return nil, ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// Rotate: revoke the old token before issuing a new pair
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken))
}

// Me returns the current staff identity (backs the identity cache)
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*AuthResponse, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID, user.Username, user.Role,
		s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.NewString()
	refreshToken, err := jwt.GenerateRefreshToken(user.ID, tokenID, s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := s.refreshTokenRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
