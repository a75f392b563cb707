// Package auth contains the credential primitives of the server: password
// hashing, access token issuing and validation, and the role gate.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the only error Validate returns. The concrete cause is
// logged, not returned.
var ErrInvalidToken = errors.New("invalid token")

// TokenConfig is the signing configuration of a TokenIssuer. It is copied at
// construction and never changes afterwards; rotating Secret invalidates all
// outstanding tokens.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// Claims is the claim set of an access token: subject, issue time and
// expiry. Email and roles are not embedded, so changes to them apply on the
// next resolution.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	logger logging.Logger
	now    func() time.Time
}

// IssuerOption customizes a TokenIssuer.
type IssuerOption func(*TokenIssuer)

// WithClock replaces time.Now as the source of issue and validation time.
func WithClock(now func() time.Time) IssuerOption {
	return func(t *TokenIssuer) {
		t.now = now
	}
}

func NewTokenIssuer(cfg TokenConfig, l logging.Logger, opts ...IssuerOption) (*TokenIssuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is empty")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TTL)
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	t := &TokenIssuer{
		secret: secret,
		ttl:    cfg.TTL,
		logger: l.With("module", "token_issuer"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// TTL returns the lifetime of issued tokens.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue returns a signed token for subject expiring TTL from now.
func (t *TokenIssuer) Issue(subject string) (string, error) {
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})

	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validate checks the signature and expiry of tokenString and returns its
// subject. Every failure yields ErrInvalidToken.
func (t *TokenIssuer) Validate(ctx context.Context, tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		t.logger.Debug(ctx, "token rejected", "reason", classify(err), "error", err.Error())
		return "", ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		t.logger.Debug(ctx, "token rejected", "reason", "malformed")
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

func classify(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "method"
	default:
		return "malformed"
	}
}
