package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"

	"account_service/internal/clock"
)

// AccessTokenTTL is fixed; tokens are valid strictly before IssuedAt+TTL.
const AccessTokenTTL = time.Hour

var (
	ErrEmptySecret  = errors.New("empty signing secret")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type Claims struct {
	UserID uuid.UUID `json:"id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens with one process-wide key.
type TokenIssuer struct {
	key   []byte
	clock clock.Clock
}

func NewTokenIssuer(secret string, clk clock.Clock) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &TokenIssuer{
		key:   []byte(secret),
		clock: clk,
	}, nil
}

func (i *TokenIssuer) Issue(userID uuid.UUID) (string, error) {
	const op = "auth.TokenIssuer.Issue"

	now := i.clock.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

func (i *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (interface{}, error) {
			return i.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
