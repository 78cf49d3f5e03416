package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/art-gallery-service/internal/api/dto"
	"github.com/spec-kit/art-gallery-service/internal/auth"
	"github.com/spec-kit/art-gallery-service/internal/service"
	apperrors "github.com/spec-kit/art-gallery-service/pkg/util/errorutil"
)

// AuthHandler exposes signup, login and who-am-I.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("invalid signup request", dto.ValidationDetails(err))
	}

	res, err := h.auth.Signup(c.UserContext(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(authResponse(res))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("email and password required", dto.ValidationDetails(err))
	}

	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(authResponse(res))
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.auth.Me(c.UserContext(), *identity)
	if err != nil {
		return err
	}
	return c.JSON(dto.MeResponse{
		Subject:   identity.Subject,
		Role:      identity.Role,
		Authority: identity.Authority(),
		Name:      user.Name,
		ID:        user.ID,
	})
}

func authResponse(res *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     res.Token.Token,
		TokenType: "Bearer",
		ExpiresAt: res.Token.ExpiresAt,
		User:      dto.NewUserResponse(res.User),
	}
}
