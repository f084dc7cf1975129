package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued API token stays valid
const TokenTTL = 24 * time.Hour

// TokenSubject identifies API clients in issued tokens
const TokenSubject = "api-client"

// IssueToken verifies an API key against the configured bcrypt hash and
// returns a signed JWT
func (s *Service) IssueToken(apiKey string) (string, time.Time, error) {
	if !s.config.AuthEnabled() || apiKey == "" {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.APIKeyHash), []byte(apiKey)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   TokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("API token issued, expires at %s", expiresAt.Format(time.RFC3339))
	return tokenString, expiresAt, nil
}
