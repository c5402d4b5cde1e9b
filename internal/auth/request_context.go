package auth

import (
	"context"
)

type contextKey string

var usernameKey contextKey = "username"

func SetUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// GetUsername returns the logged-in member, or "" for anonymous requests.
func GetUsername(ctx context.Context) string {
	if username, ok := ctx.Value(usernameKey).(string); ok {
		return username
	}
	return ""
}
