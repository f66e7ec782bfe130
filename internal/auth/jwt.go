package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rexmarketing03-cell/planner-api/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the JWT payload carried by planner bearer tokens
type Claims struct {
	DisplayName string `json:"name"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HMAC-signed bearer tokens
type TokenService struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(cfg *config.AuthConfig) *TokenService {
	return &TokenService{
		secret:   []byte(cfg.SigningSecret),
		tokenTTL: cfg.TokenTTLDuration(),
	}
}

// Issue creates a signed token for the given user
func (s *TokenService) Issue(userID uuid.UUID, displayName, email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		DisplayName: displayName,
		Email:       email,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies a token and returns the user context it carries
func (s *TokenService) Validate(tokenString string) (*UserContext, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userCtx := &UserContext{
		DisplayName: claims.DisplayName,
		Email:       claims.Email,
		Role:        claims.Role,
	}
	if claims.Subject != "" {
		if uid, err := uuid.Parse(claims.Subject); err == nil {
			userCtx.UserID = uid
		}
	}

	return userCtx, nil
}
