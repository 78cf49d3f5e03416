package dto

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/spec-kit/art-gallery-service/internal/domain"
)

// SignupRequest payload for new accounts. Role is optional and defaults to CUSTOMER.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate trims the request and checks its fields.
func (r *SignupRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 128)),
	)
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewUserResponse maps a stored account.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// MeResponse answers who-am-I. It never carries a token.
type MeResponse struct {
	Subject   string      `json:"subject"`
	Role      domain.Role `json:"role"`
	Authority string      `json:"authority"`
	Name      string      `json:"name,omitempty"`
	ID        string      `json:"id,omitempty"`
}

// ValidationDetails flattens ozzo field errors into a details map.
func ValidationDetails(err error) map[string]any {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return map[string]any{"error": err.Error()}
	}
	details := make(map[string]any, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		details[field] = fieldErr.Error()
	}
	return details
}
