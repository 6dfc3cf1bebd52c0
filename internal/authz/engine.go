// Package authz decides whether a principal may perform an action. Decisions
// are computed from the role claims embedded in the principal's token at
// issuance time; the engine never mutates storage.
package authz

import (
	"context"
)

// Principal is the authenticated identity derived from a validated token.
// Roles is the claim snapshot from issuance time — role changes made after
// the token was issued do not appear here until the user re-authenticates.
type Principal struct {
	UserID  int64
	Email   string
	Name    string
	Roles   []string
	TokenID string
}

// Authorize reports whether the principal satisfies the required role set.
// An empty requirement means any authenticated principal; otherwise any
// single shared role suffices (any-match, not all-match).
func Authorize(p Principal, requiredRoles []string) bool {
	if len(requiredRoles) == 0 {
		return true
	}
	held := make(map[string]struct{}, len(p.Roles))
	for _, role := range p.Roles {
		held[role] = struct{}{}
	}
	for _, required := range requiredRoles {
		if _, ok := held[required]; ok {
			return true
		}
	}
	return false
}

// RoleResolver maps role names to the union of their permission identifier
// sets. Roles are stored on the user as names only, so resolving is a second
// round trip against the role registry.
type RoleResolver interface {
	ResolvePermissions(ctx context.Context, roleNames []string) (map[string]struct{}, error)
}

// Engine answers fine-grained permission checks for UI feature gating on top
// of the coarse role check.
type Engine struct {
	resolver RoleResolver
}

// NewEngine creates an engine backed by the given resolver.
func NewEngine(resolver RoleResolver) *Engine {
	return &Engine{resolver: resolver}
}

// HasPermission reports whether any of the principal's roles grants the
// permission identifier. A principal with no roles, or roles that resolve to
// an empty set, is denied (fail closed).
func (e *Engine) HasPermission(ctx context.Context, p Principal, permissionID string) (bool, error) {
	if permissionID == "" {
		return false, nil
	}
	granted, err := e.resolver.ResolvePermissions(ctx, p.Roles)
	if err != nil {
		return false, err
	}
	_, ok := granted[permissionID]
	return ok, nil
}
