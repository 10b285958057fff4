// Package auth issues and verifies the bearer tokens used by admin routes.
package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shashiranjanraj/nepkart/config"
	"github.com/shashiranjanraj/nepkart/pkg/cache"
	"golang.org/x/crypto/bcrypt"
)

// ErrRevoked is returned by ValidateToken for a logged-out token.
var ErrRevoked = errors.New("auth: token revoked")

const revokedPrefix = "auth:revoked:"

// Claims holds the typed JWT payload.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Token is a signed token plus its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// GenerateToken creates a signed JWT valid for config.JWTTTL.
func GenerateToken(userID uint, username, role string) (Token, error) {
	now := time.Now()
	exp := now.Add(config.JWTTTL())
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

// ValidateToken parses and validates a JWT string, rejecting revoked ids.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if IsRevoked(claims.ID) {
		return nil, ErrRevoked
	}

	return claims, nil
}

// revoked holds ids when Redis is not connected.
var revoked sync.Map

// Revoke blacklists the token id until the token would have expired anyway.
func Revoke(c *Claims) error {
	if c == nil || c.ID == "" {
		return nil
	}
	ttl := time.Minute
	if c.ExpiresAt != nil {
		ttl = time.Until(c.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	if cache.Available() {
		return cache.Set(revokedPrefix+c.ID, true, ttl)
	}
	revoked.Store(c.ID, time.Now().Add(ttl))
	return nil
}

// IsRevoked reports whether the token id was logged out.
func IsRevoked(id string) bool {
	if id == "" {
		return false
	}
	if cache.Available() {
		return cache.Has(revokedPrefix + id)
	}
	v, ok := revoked.Load(id)
	if !ok {
		return false
	}
	if time.Now().After(v.(time.Time)) {
		revoked.Delete(id)
		return false
	}
	return true
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
