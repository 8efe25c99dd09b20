package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/slash/internal/auth"
	"github.com/donaldgifford/slash/internal/engine"
	"github.com/donaldgifford/slash/internal/retail"
	"github.com/donaldgifford/slash/internal/store"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// apiError translates domain errors into huma status errors. Errors it does
// not recognise become a 500 prefixed with action.
func apiError(action string, err error) error {
	var filterErr *engine.FilterError

	switch {
	case errors.Is(err, retail.ErrUnknownSite):
		return huma.Error400BadRequest(err.Error())
	case errors.As(err, &filterErr):
		return huma.Error500InternalServerError("filtering results failed", err)
	case errors.Is(err, engine.ErrUserNotFound):
		return huma.Error404NotFound("user not found")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return huma.Error401Unauthorized(err.Error())
	case errors.Is(err, auth.ErrWeakPassword):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, store.ErrEmptyCart):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, store.ErrConflict):
		return huma.Error409Conflict(action + ": already exists")
	case errors.Is(err, store.ErrNotFound):
		return huma.Error404NotFound(action + ": not found")
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout(action + ": timed out")
	default:
		return huma.Error500InternalServerError(action + " failed: " + err.Error())
	}
}

// userLookup is the store subset needed to resolve path usernames.
type userLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// lookupUser resolves a username path parameter, answering 404 for unknown
// users.
func lookupUser(ctx context.Context, s userLookup, username string) (*domain.User, error) {
	u, err := s.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("user not found")
	}
	if err != nil {
		return nil, apiError("looking up user", err)
	}
	return u, nil
}
