package utils

import (
	"context"
)

type contextKey string

const (
	DNIKey  contextKey = "dni"
	RoleKey contextKey = "role"
)

// GetDNIFromContext returns the authenticated customer's national identity
// number. Identity is established upstream; this service only consumes it.
func GetDNIFromContext(ctx context.Context) (string, bool) {
	dniVal := ctx.Value(DNIKey)
	if dniVal == nil {
		return "", false
	}

	dni, ok := dniVal.(string)
	if !ok || dni == "" {
		return "", false
	}

	return dni, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	roleVal := ctx.Value(RoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(string)
	return role, ok
}

func SetIdentityContext(ctx context.Context, dni, role string) context.Context {
	ctx = context.WithValue(ctx, DNIKey, dni)
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}
