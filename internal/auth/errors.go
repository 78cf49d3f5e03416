package auth

import (
	"errors"

	"github.com/spec-kit/art-gallery-service/internal/domain"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrMalformedToken  = errors.New("malformed token")
	ErrBadSignature    = errors.New("token signature invalid")
	ErrExpired         = errors.New("token expired")
	ErrMissingRole     = errors.New("token has no role claim")
	ErrInvalidRole     = domain.ErrInvalidRole
)

// Rejection reasons reported to logs and metrics. They are never sent to clients.
const (
	ReasonMalformed    = "malformed"
	ReasonBadSignature = "bad_signature"
	ReasonExpired      = "expired"
	ReasonMissingRole  = "missing_role"
	ReasonInvalidRole  = "invalid_role"
	ReasonUnknown      = "unknown"
)

// RejectionReason maps a verification error to a stable reason label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrMalformedToken):
		return ReasonMalformed
	case errors.Is(err, ErrBadSignature):
		return ReasonBadSignature
	case errors.Is(err, ErrExpired):
		return ReasonExpired
	case errors.Is(err, ErrMissingRole):
		return ReasonMissingRole
	case errors.Is(err, ErrInvalidRole):
		return ReasonInvalidRole
	default:
		return ReasonUnknown
	}
}
