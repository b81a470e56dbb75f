package auth

import (
	"context"
	"errors"

	"softball-scorebook/internal/application/services"
	"softball-scorebook/pkg/middleware"
)

var ErrNoAuthenticatedUser = errors.New("no authenticated user in context")

// Permission names checked by the workflow layer. Each maps to the
// minimum role that may perform it.
const (
	PermissionRecordGame  = "game:record"
	PermissionManageGame  = "game:manage"
	PermissionViewGame    = "game:view"
	PermissionUndoActions = "game:undo"
)

var permissionRoles = map[string][]string{
	PermissionRecordGame:  {middleware.RoleScorer, middleware.RoleAdmin},
	PermissionManageGame:  {middleware.RoleAdmin},
	PermissionViewGame:    {middleware.RoleViewer, middleware.RoleScorer, middleware.RoleAdmin},
	PermissionUndoActions: {middleware.RoleScorer, middleware.RoleAdmin},
}

// ContextAuthService resolves the acting scorer from request context
// values placed there by the JWT middleware, and answers permission
// checks from the scorer's stored role.
type ContextAuthService struct {
	store *ScorerStore
}

var _ services.AuthService = (*ContextAuthService)(nil)

func NewContextAuthService(store *ScorerStore) *ContextAuthService {
	return &ContextAuthService{store: store}
}

func (s *ContextAuthService) CurrentUser(ctx context.Context) (string, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok || userID == "" {
		return "", ErrNoAuthenticatedUser
	}
	return userID, nil
}

func (s *ContextAuthService) HasPermission(ctx context.Context, userID, operation string) (bool, error) {
	allowed, known := permissionRoles[operation]
	if !known {
		return false, nil
	}

	// The token role is authoritative for the request when present; the
	// store backs it up for calls outside an HTTP context.
	role, ok := middleware.GetRoleFromContext(ctx)
	if !ok || role == "" {
		account, err := s.store.GetByID(userID)
		if err != nil {
			return false, err
		}
		role = account.Role
	}

	for _, r := range allowed {
		if role == r {
			return true, nil
		}
	}
	return false, nil
}
