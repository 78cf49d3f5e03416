package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/art-gallery-service/internal/auth"
	"github.com/spec-kit/art-gallery-service/internal/domain"
	"github.com/spec-kit/art-gallery-service/internal/events"
	"github.com/spec-kit/art-gallery-service/internal/repository"
	apperrors "github.com/spec-kit/art-gallery-service/pkg/util/errorutil"
)

// SignupInput carries a validated registration request.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	User  *domain.User
	Token auth.IssuedToken
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	BcryptCost int
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		bcryptCost: deps.BcryptCost,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Signup creates a new account and signs a token for it.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	role, err := domain.NormalizeAccountRole(in.Role)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid role specified", map[string]any{"role": in.Role})
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, s.storeError(err)
	}

	issued, err := s.tokens.Issue(user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.New(events.EventUserRegistered, user.Email, events.UserRegisteredPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}))
	return &AuthResult{User: user, Token: issued}, nil
}

// Login checks credentials and signs a token. Unknown accounts and wrong passwords look the same.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, s.storeError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.NewInternalError(err)
	}

	issued, err := s.tokens.Issue(user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: issued}, nil
}

// Me loads the stored account behind an authenticated identity.
func (s *AuthService) Me(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, identity.Subject)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("account", nil)
	}
	if err != nil {
		return nil, s.storeError(err)
	}
	return user, nil
}

// TokenManager exposes the token codec used by the service.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) storeError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperrors.NewConflict("email already registered", nil)
	case errors.Is(err, repository.ErrStoreUnavailable):
		return apperrors.NewServiceUnavailable("account store unavailable")
	default:
		return apperrors.NewInternalError(err)
	}
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
