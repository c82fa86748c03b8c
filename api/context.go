package api

import (
	"context"

	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
)

type keyType string

const (
	userKey      keyType = "user"
	requestIDKey keyType = "requestID"
)

// ctxWithUser adds the logged-in admin to the context
func ctxWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ctxGetUser returns the logged-in admin, or nil for visitors
func ctxGetUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func ctxWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func ctxGetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
