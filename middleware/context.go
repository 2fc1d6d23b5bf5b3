package middleware

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yshmodi/eiregate/supabase"
)

// Context key type to avoid collisions
type contextKey string

const (
	// UserKey is the context key for the authenticated user
	UserKey contextKey = "user"

	// TokenKey is the context key for the raw access token
	TokenKey contextKey = "token"
)

// GetRequestIDFromContext retrieves the chi request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// GetUserFromContext retrieves the authenticated user from context
func GetUserFromContext(ctx context.Context) *supabase.User {
	if val := ctx.Value(UserKey); val != nil {
		if user, ok := val.(*supabase.User); ok {
			return user
		}
	}
	return nil
}

// WithUser adds the authenticated user to the context
func WithUser(ctx context.Context, user *supabase.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// GetTokenFromContext retrieves the raw access token from context
func GetTokenFromContext(ctx context.Context) string {
	if val := ctx.Value(TokenKey); val != nil {
		if token, ok := val.(string); ok {
			return token
		}
	}
	return ""
}

// WithToken adds the raw access token to the context
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
