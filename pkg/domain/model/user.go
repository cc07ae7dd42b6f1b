package model

import "context"

// AnonymousUserID is used when the request carries no identity
const AnonymousUserID = "anonymous"

type ctxUserIDKey struct{}

// ContextWithUserID stores the authenticated user id
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserIDKey{}, userID)
}

// UserIDFromContext returns the user id, or AnonymousUserID
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxUserIDKey{}).(string); ok && id != "" {
		return id
	}
	return AnonymousUserID
}
