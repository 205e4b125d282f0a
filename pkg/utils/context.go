package utils

import (
	"context"

	"course-platform/internal/data/entity"

	"github.com/google/uuid"
)

type contextKey string

const userKey contextKey = "user"

// SetUserContext attaches the authenticated user to ctx.
func SetUserContext(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the user attached by the auth guard.
func GetUserFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(userKey).(*entity.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}
