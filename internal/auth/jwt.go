package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the token verifier vouches for.
type Identity struct {
	Subject string
	Email   string
}

// Verifier checks a raw bearer credential. The gate treats a nil Verifier
// as "identity provider not configured" and fails closed.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*Identity, error)
}

// TokenService signs and verifies HS256 tokens for the single admin
// identity. It is the shipped Verifier implementation; a remote
// identity-provider check would slot in behind the same interface.
type TokenService struct {
	Secret   []byte
	Issuer   string
	Duration time.Duration
}

// Configured reports whether the service can verify anything at all.
func (ts TokenService) Configured() bool {
	return len(ts.Secret) > 0
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (ts TokenService) Sign(email string) (string, time.Time, error) {
	exp := time.Now().Add(ts.Duration)

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.Issuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(ts.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

func (ts TokenService) Verify(_ context.Context, raw string) (*Identity, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (any, error) {
		// enforce HS256
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return &Identity{Subject: claims.Subject, Email: claims.Email}, nil
}
