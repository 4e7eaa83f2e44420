// Package token issues bearer tokens and hashes passwords.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"expedia_inspired/internal/domain"
)

var _ domain.Credentials = (*Issuer)(nil)

const issuer = "expedia-inspired"

// Issuer signs HS256 tokens whose subject is the user's email.
type Issuer struct {
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
}

func New(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		ttl:        ttl,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// WithCost sets the bcrypt cost; tests use bcrypt.MinCost.
func (i *Issuer) WithCost(cost int) *Issuer {
	i.bcryptCost = cost
	return i
}

func (i *Issuer) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), i.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (i *Issuer) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (i *Issuer) IssueToken(subject string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// ParseToken validates a token and returns its subject. Any failure is
// reported as domain.ErrUnauthorized.
func (i *Issuer) ParseToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if !tok.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthorized, errors.New("empty subject"))
	}
	return claims.Subject, nil
}
