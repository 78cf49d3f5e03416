package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/art-gallery-service/internal/domain"
)

const (
	identityKey  = "auth_identity"
	authorityKey = "auth_authority"
)

// PaymentCallbackPrefix is the path namespace authenticated by callback signatures instead of bearer tokens.
const PaymentCallbackPrefix = "/api/payments/"

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// OutcomeRecorder counts bearer authentication outcomes.
type OutcomeRecorder interface {
	RecordAuthentication(outcome string)
}

// Authenticator installs the caller identity for requests carrying a valid bearer token.
// It never rejects a request; route gates decide whether an identity is required.
type Authenticator struct {
	tokens   TokenVerifier
	logger   *zap.Logger
	recorder OutcomeRecorder
	exempt   []string
}

// NewAuthenticator constructs middleware. Requests under any exempt prefix are passed through untouched.
func NewAuthenticator(tokens TokenVerifier, logger *zap.Logger, recorder OutcomeRecorder, exemptPrefixes ...string) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{tokens: tokens, logger: logger, recorder: recorder, exempt: exemptPrefixes}
}

// Handle is the fiber middleware entrypoint.
func (m *Authenticator) Handle(c *fiber.Ctx) error {
	path := c.Path()
	for _, prefix := range m.exempt {
		if strings.HasPrefix(path, prefix) {
			return c.Next()
		}
	}

	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		m.record("anonymous")
		return c.Next()
	}

	identity, err := m.tokens.Verify(token)
	if err != nil {
		clearIdentity(c)
		reason := RejectionReason(err)
		m.record(reason)
		m.logger.Debug("bearer token rejected",
			zap.String("reason", reason),
			zap.String("path", path),
		)
		return c.Next()
	}

	c.Locals(identityKey, &identity)
	c.Locals(authorityKey, identity.Authority())
	m.record("authenticated")
	return c.Next()
}

func (m *Authenticator) record(outcome string) {
	if m.recorder != nil {
		m.recorder.RecordAuthentication(outcome)
	}
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func clearIdentity(c *fiber.Ctx) {
	c.Locals(identityKey, nil)
	c.Locals(authorityKey, nil)
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok && identity != nil
}

// AuthorityFromContext returns the authority installed for the caller.
func AuthorityFromContext(c *fiber.Ctx) (string, bool) {
	authority, ok := c.Locals(authorityKey).(string)
	return authority, ok && authority != ""
}
