// Package auth issues and verifies the bearer tokens that identify the acting
// user, and hashes stored passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sportsball/go/internal/apperrors"
)

const issuer = "sportsball"

// Identity is the authenticated caller. Only ID takes part in ownership checks.
type Identity struct {
	ID       uuid.UUID
	Username string
}

// Claims defines the structure of the JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens
type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewIssuer creates an Issuer. A zero ttl issues tokens without expiry.
func NewIssuer(secret string, ttl time.Duration, clock clockwork.Clock) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, clock: clock}, nil
}

// Issue creates a signed token for the user
func (i *Issuer) Issue(id uuid.UUID, username string) (string, error) {
	now := i.clock.Now()
	claims := &Claims{
		UserID:   id.String(),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  id.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token and returns the identity it carries.
// Every failure wraps apperrors.ErrUnauthenticated.
func (i *Issuer) Parse(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, fmt.Errorf("%w: token is empty", apperrors.ErrUnauthenticated)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithTimeFunc(i.clock.Now),
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("%w: token has expired", apperrors.ErrUnauthenticated)
		}
		return Identity{}, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("%w: token is invalid", apperrors.ErrUnauthenticated)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: user_id claim is malformed", apperrors.ErrUnauthenticated)
	}
	return Identity{ID: id, Username: claims.Username}, nil
}
