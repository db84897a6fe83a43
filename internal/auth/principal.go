package auth

import (
	"context"

	"rezerv/pkg/model"
)

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	UserID string
	Role   model.UserRole
}

func (p *Principal) IsAdmin() bool {
	return p.Role.IsAdmin()
}

type contextKey string

const principalKey contextKey = "principal"

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}
