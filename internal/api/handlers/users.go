package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/slash/internal/auth"
	"github.com/donaldgifford/slash/internal/store"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// UsersHandler handles account registration and login.
type UsersHandler struct {
	store store.Store
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(s store.Store) *UsersHandler {
	return &UsersHandler{store: s}
}

// RegisterInput is the request body for account registration.
type RegisterInput struct {
	Body struct {
		Username  string `json:"username"             minLength:"3" maxLength:"50" pattern:"^[a-zA-Z0-9_.-]+$" example:"alice"`
		Email     string `json:"email"                format:"email"                                        example:"alice@example.com"`
		FirstName string `json:"first_name,omitempty" maxLength:"100"`
		LastName  string `json:"last_name,omitempty"  maxLength:"100"`
		Password  string `json:"password"             minLength:"8" doc:"Between 8 characters and 72 bytes"`
		Role      string `json:"role,omitempty"       enum:"buyer,seller" default:"buyer"`
	}
}

// LoginInput is the request body for login.
type LoginInput struct {
	Body struct {
		Username string `json:"username" minLength:"1"`
		Password string `json:"password" minLength:"1"`
	}
}

// UserOutput wraps a single user. The password hash is never serialized.
type UserOutput struct {
	Body domain.User
}

// Register creates an account. Duplicate usernames or emails are rejected
// with 409.
func (h *UsersHandler) Register(ctx context.Context, input *RegisterInput) (*UserOutput, error) {
	hash, err := auth.HashPassword(input.Body.Password)
	if err != nil {
		return nil, apiError("registering user", err)
	}

	role := domain.Role(input.Body.Role)
	if role == "" {
		role = domain.RoleBuyer
	}

	u := &domain.User{
		Username:     input.Body.Username,
		Email:        strings.ToLower(input.Body.Email),
		FirstName:    input.Body.FirstName,
		LastName:     input.Body.LastName,
		PasswordHash: hash,
		Role:         role,
	}
	if err := h.store.CreateUser(ctx, u); err != nil {
		return nil, apiError("user", err)
	}

	return &UserOutput{Body: *u}, nil
}

// Login checks a username and password and returns the account.
func (h *UsersHandler) Login(ctx context.Context, input *LoginInput) (*UserOutput, error) {
	u, err := auth.Authenticate(ctx, h.store, input.Body.Username, input.Body.Password)
	if err != nil {
		return nil, apiError("login", err)
	}
	return &UserOutput{Body: *u}, nil
}

// RegisterUserRoutes registers account endpoints with the Huma API.
func RegisterUserRoutes(api huma.API, h *UsersHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "register-user",
		Method:        http.MethodPost,
		Path:          "/api/v1/users",
		Summary:       "Register an account",
		Description:   "Creates a buyer or seller account. Usernames and emails must be unique.",
		Tags:          []string{"users"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusConflict, http.StatusUnprocessableEntity},
	}, h.Register)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/login",
		Summary:     "Log in",
		Description: "Verifies a username and password and returns the account.",
		Tags:        []string{"users"},
		Errors:      []int{http.StatusUnauthorized},
	}, h.Login)
}
