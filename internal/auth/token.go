package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/art-gallery-service/internal/domain"
)

// DefaultTokenLifetime applies when no positive lifetime is configured.
const DefaultTokenLifetime = 24 * time.Hour

var errKeyNotConfigured = errors.New("signing key not configured")

// Claims describes the JWT payload. Role is kept as a raw string so that
// verification decides whether it canonicalizes.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssuedToken is a freshly signed token and its validity window.
type IssuedToken struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// TokenManager handles issuing and validating JWT tokens.
// It holds only immutable state and is safe for concurrent use.
type TokenManager struct {
	key    SigningKey
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenManager builds a new manager. Timestamps are carried with second
// precision, so the lifetime is truncated to whole seconds.
func NewTokenManager(key SigningKey, lifetime time.Duration, opts ...TokenOption) *TokenManager {
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	lifetime = lifetime.Truncate(time.Second)
	if lifetime < time.Second {
		lifetime = time.Second
	}

	tm := &TokenManager{
		key: key,
		ttl: lifetime,
		now: time.Now,
		// Expiry is checked by Verify so that a token stays valid through its exact exp instant.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
			jwt.WithStrictDecoding(),
		),
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// Lifetime returns the validity window of issued tokens.
func (tm *TokenManager) Lifetime() time.Duration {
	return tm.ttl
}

// Issue signs a token binding subject to role. A blank role defaults to CUSTOMER.
func (tm *TokenManager) Issue(subject, role string) (IssuedToken, error) {
	if strings.TrimSpace(subject) == "" {
		return IssuedToken{}, fmt.Errorf("%w: subject is required", ErrInvalidArgument)
	}
	normalized, err := domain.NormalizeAccountRole(role)
	if err != nil {
		return IssuedToken{}, err
	}
	if tm.key.IsZero() {
		return IssuedToken{}, errKeyNotConfigured
	}

	issuedAt := tm.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Role: string(normalized),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.key.key)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	return IssuedToken{Token: tokenString, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

// Verify checks the token signature, expiry and role claim and returns the identity it carries.
func (tm *TokenManager) Verify(tokenStr string) (domain.Identity, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" || strings.Count(tokenStr, ".") != 2 {
		return domain.Identity{}, ErrMalformedToken
	}
	if tm.key.IsZero() {
		return domain.Identity{}, ErrBadSignature
	}

	claims := &Claims{}
	parsed, err := tm.parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.key.key, nil
	})
	if err != nil {
		return domain.Identity{}, classifyParseError(tokenStr, err)
	}
	if !parsed.Valid {
		return domain.Identity{}, ErrBadSignature
	}

	if strings.TrimSpace(claims.Subject) == "" || claims.ExpiresAt == nil {
		return domain.Identity{}, ErrMalformedToken
	}
	if tm.now().After(claims.ExpiresAt.Time) {
		return domain.Identity{}, ErrExpired
	}
	if strings.TrimSpace(claims.Role) == "" {
		return domain.Identity{}, ErrMissingRole
	}
	role, err := domain.NormalizeRole(claims.Role)
	if err != nil {
		return domain.Identity{}, err
	}

	return domain.Identity{Subject: claims.Subject, Role: role}, nil
}

func classifyParseError(tokenStr string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		if onlySignatureCorrupt(tokenStr) {
			return ErrBadSignature
		}
		return ErrMalformedToken
	default:
		return ErrMalformedToken
	}
}

// onlySignatureCorrupt reports whether header and payload decode cleanly while the
// signature segment does not.
func onlySignatureCorrupt(tokenStr string) bool {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return false
	}
	enc := base64.RawURLEncoding.Strict()
	if _, err := enc.DecodeString(parts[0]); err != nil {
		return false
	}
	if _, err := enc.DecodeString(parts[1]); err != nil {
		return false
	}
	_, err := enc.DecodeString(parts[2])
	return err != nil
}
