package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"celenk/internal/logging"
	"celenk/internal/models"
	"celenk/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminClaims is what a valid session token tells about its holder.
type AdminClaims struct {
	AdminID   string
	Email     string
	ExpiresAt time.Time
}

// AuthService handles admin login and session tokens.
type AuthService struct {
	adminRepo  repositories.AdminRepository
	jwtSecret  []byte
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(adminRepo repositories.AdminRepository, jwtSecret string, sessionTTL time.Duration, logger *zap.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		adminRepo:  adminRepo,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		logger:     logging.OrNop(logger),
	}
}

// EnsureAdmin creates the configured admin account, or refreshes its hash
// when the configuration changed. Empty credentials are a no-op.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, passwordHash string) error {
	email = normalizeEmail(email)
	if email == "" || passwordHash == "" {
		return nil
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		if err := s.adminRepo.Create(ctx, &models.AdminUser{Email: email, PasswordHash: passwordHash}); err != nil {
			return err
		}
		s.logger.Info("admin account created", zap.String("email", email))
		return nil
	}
	if err != nil {
		return err
	}
	if admin.PasswordHash != passwordHash {
		if err := s.adminRepo.UpdatePasswordHash(ctx, admin.ID, passwordHash); err != nil {
			return err
		}
		s.logger.Info("admin password hash updated", zap.String("email", email))
	}
	return nil
}

// Login authenticates an admin and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.logger.Error("admin lookup failed", zap.Error(err))
		}
		return "", time.Time{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("admin login rejected", zap.String("email", admin.Email))
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := time.Now()
	expiresAt := now.Add(s.sessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   admin.ID,
		"email": admin.Email,
		"exp":   expiresAt.Unix(),
		"iat":   now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}
	s.logger.Info("admin logged in", zap.String("email", admin.Email))
	return tokenString, expiresAt, nil
}

// ValidateToken parses and validates a session token. The token must carry
// an expiry and name an admin account that still exists.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*AdminClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrUnauthorized
	}
	if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		return nil, fmt.Errorf("%w: token has no valid expiry", ErrUnauthorized)
	}
	id, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	exp, _ := claims["exp"].(float64)
	if id == "" || email == "" {
		return nil, ErrUnauthorized
	}

	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown admin", ErrUnauthorized)
		}
		return nil, err
	}
	if admin.Email != email {
		return nil, fmt.Errorf("%w: admin email changed", ErrUnauthorized)
	}
	return &AdminClaims{AdminID: admin.ID, Email: admin.Email, ExpiresAt: time.Unix(int64(exp), 0)}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
