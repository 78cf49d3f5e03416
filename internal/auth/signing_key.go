package auth

import (
	"errors"
	"fmt"
)

// MinSecretLength is the minimum number of secret bytes accepted for token signing.
const MinSecretLength = 32

// ErrWeakSecret is returned when the configured signing secret is too short.
var ErrWeakSecret = errors.New("signing secret too short")

// SigningKey is the process-wide HMAC key for session tokens. It is immutable once built.
type SigningKey struct {
	key []byte
}

// NewSigningKey derives a signing key from the configured secret.
func NewSigningKey(secret string) (SigningKey, error) {
	if len(secret) < MinSecretLength {
		return SigningKey{}, fmt.Errorf("%w: need at least %d bytes, got %d", ErrWeakSecret, MinSecretLength, len(secret))
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return SigningKey{key: key}, nil
}

// IsZero reports whether the key was never initialized.
func (k SigningKey) IsZero() bool {
	return len(k.key) == 0
}

// String never reveals key material.
func (k SigningKey) String() string {
	return "SigningKey([REDACTED])"
}
