package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/nepkart/app/repositories"
	"github.com/shashiranjanraj/nepkart/pkg/auth"
	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Login for any unknown user or wrong
// password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService signs admin users in and out.
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Login checks the credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (auth.Token, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return auth.Token{}, ErrInvalidCredentials
	}

	u, err := repositories.NewUserRepository(s.db.WithContext(ctx)).FindByUsername(username)
	if errors.Is(err, ErrNotFound) {
		return auth.Token{}, ErrInvalidCredentials
	}
	if err != nil {
		return auth.Token{}, err
	}
	if !auth.CheckPassword(u.Password, password) {
		logger.WithCtx(ctx).Warn("login failed", "username", username)
		return auth.Token{}, ErrInvalidCredentials
	}

	tok, err := auth.GenerateToken(u.ID, u.Username, u.Role)
	if err != nil {
		return auth.Token{}, err
	}
	logger.WithCtx(ctx).Info("login", "username", u.Username)
	return tok, nil
}

// Logout revokes the token described by c.
func (s *AuthService) Logout(ctx context.Context, c *auth.Claims) error {
	if err := auth.Revoke(c); err != nil {
		return err
	}
	if c != nil {
		logger.WithCtx(ctx).Info("logout", "username", c.Username)
	}
	return nil
}
