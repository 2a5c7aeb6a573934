package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"medquiz/internal/models"
	"medquiz/internal/repository"
)

// AuthService handles Telegram-backed login, access tokens and the user
// lifecycle (registration from the bot, profile deletion).
type AuthService struct {
	userRepo  *repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Login verifies that the supplied Telegram id belongs to a known active
// user and issues a signed access token for them.
func (s *AuthService) Login(ctx context.Context, telegramID int64) (string, *models.User, error) {
	user, err := s.userRepo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.IsActive {
		return "", nil, ErrUnauthorized
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

// ValidateToken parses and verifies an access token and returns the user
// it was issued to. Inactive and deleted users are rejected even when the
// token itself is still valid.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	var userID uint64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// UserByTelegram returns the user bound to a Telegram account, or nil
// when the account was never registered.
func (s *AuthService) UserByTelegram(ctx context.Context, telegramID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// RegisterFromTelegram creates a user record for a Telegram account on
// first contact. The very first registered user becomes an admin. A user
// who already exists is reactivated and returned as-is.
func (s *AuthService) RegisterFromTelegram(ctx context.Context, name, username string, telegramID int64) (*models.User, bool, error) {
	existing, err := s.userRepo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		if !existing.IsActive {
			if err := s.userRepo.SetUserActive(ctx, existing.ID, true); err != nil {
				return nil, false, fmt.Errorf("failed to reactivate user: %w", err)
			}
			existing.IsActive = true
		}
		return existing, false, nil
	}

	total, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to count users: %w", err)
	}
	userID, err := s.userRepo.CreateUser(ctx, name, username, telegramID, total == 0)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, true, nil
}

// Deactivate marks a user inactive without touching their answer history.
// The bot uses it when Telegram reports the chat as blocked.
func (s *AuthService) Deactivate(ctx context.Context, telegramID int64) error {
	user, err := s.userRepo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return repository.ErrNotFound
	}
	return s.userRepo.SetUserActive(ctx, user.ID, false)
}

// DeleteProfile removes the user record while keeping their answers and
// results around anonymously for the aggregate statistics.
func (s *AuthService) DeleteProfile(ctx context.Context, userID uint64) error {
	return s.userRepo.DeleteUser(ctx, userID)
}
