package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	// SignupTokenTTL is the lifetime of tokens issued on signup.
	SignupTokenTTL = 2 * time.Hour
	// LoginTokenTTL is the lifetime of tokens issued on login.
	LoginTokenTTL = 24 * time.Hour
)

var (
	// ErrTokenMissing is returned when no token was supplied.
	ErrTokenMissing = errors.New("token missing")
	// ErrInvalidToken is returned for malformed, tampered or otherwise unusable tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a correctly signed token is past its expiry.
	ErrExpiredToken = errors.New("token expired")
)

// Claims represents JWT claims. UserID is serialized as "id".
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. It holds no session
// state: validity depends only on signature and expiry.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a token service with the given signing secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
	}
}

// Issue signs a token for userID that expires ttl from now.
func (s *TokenService) Issue(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates tokenString and returns its claims. Any failure other than
// a missing or expired token is reported as ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (claims *Claims, err error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	defer func() {
		if r := recover(); r != nil {
			claims, err = nil, ErrInvalidToken
		}
	}()

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	parsed, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || parsed.UserID == "" {
		return nil, ErrInvalidToken
	}
	return parsed, nil
}
