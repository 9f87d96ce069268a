package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTypeRefresh is the value of the "typ" claim carried by refresh tokens.
// Access tokens carry no "typ" claim, so the two can never be swapped.
const TokenTypeRefresh = "refresh"

// ErrInvalidToken is returned when a token fails signature or claim validation.
var ErrInvalidToken = errors.New("invalid token")

// Generator defines the interface for JWT token generation and verification.
type Generator interface {
	// GenerateAccessToken creates a short-lived signed JWT for the given user.
	GenerateAccessToken(userID uint, email string) (string, error)

	// GenerateRefreshToken creates a long-lived signed JWT. The returned jti
	// keys the persisted session record used for revocation checks.
	GenerateRefreshToken(userID uint) (token string, jti string, expiresAt time.Time, err error)

	// ParseRefreshToken verifies a refresh token's signature and shape and
	// returns its jti and subject. Revocation is checked separately against
	// the session store.
	ParseRefreshToken(token string) (jti string, userID uint, err error)

	// AccessTTL returns the access token lifetime.
	AccessTTL() time.Duration
}

// generator implements the Generator interface.
type generator struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewGenerator creates a new JWT generator with the provided secret and lifetimes.
func NewGenerator(secret string, accessTTL, refreshTTL time.Duration) Generator {
	return &generator{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken creates a signed JWT with standard claims.
func (g *generator) GenerateAccessToken(userID uint, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"exp":   now.Add(g.accessTTL).Unix(),
		"iat":   now.Unix(),
		"email": email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// GenerateRefreshToken creates a signed refresh JWT carrying a fresh jti.
func (g *generator) GenerateRefreshToken(userID uint) (string, string, time.Time, error) {
	now := time.Now()
	jti := uuid.NewString()
	expiresAt := now.Add(g.refreshTTL)

	claims := jwt.MapClaims{
		"sub": userID,
		"jti": jti,
		"typ": TokenTypeRefresh,
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return signed, jti, expiresAt, nil
}

// ParseRefreshToken verifies the signature and refresh-token shape.
func (g *generator) ParseRefreshToken(tokenStr string) (string, uint, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return "", 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", 0, ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != TokenTypeRefresh {
		return "", 0, ErrInvalidToken
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", 0, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64) // JWT numbers are decoded as float64
	if !ok {
		return "", 0, ErrInvalidToken
	}

	return jti, uint(sub), nil
}

// AccessTTL returns the configured access token lifetime.
func (g *generator) AccessTTL() time.Duration {
	return g.accessTTL
}
