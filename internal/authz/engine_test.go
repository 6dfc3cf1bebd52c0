package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		roles    []string
		required []string
		want     bool
	}{
		{"empty requirement allows anyone", []string{}, nil, true},
		{"empty requirement allows role holders", []string{"admin"}, []string{}, true},
		{"exact match", []string{"admin"}, []string{"admin"}, true},
		{"any single shared role suffices", []string{"user", "manager"}, []string{"admin", "manager"}, true},
		{"no shared role", []string{"user"}, []string{"admin"}, false},
		{"no roles at all", nil, []string{"admin"}, false},
		{"case sensitive", []string{"Admin"}, []string{"admin"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Principal{UserID: 1, Roles: tt.roles}
			assert.Equal(t, tt.want, Authorize(p, tt.required))
		})
	}
}

type stubResolver struct {
	grants map[string]struct{}
	err    error
	called []string
}

func (s *stubResolver) ResolvePermissions(_ context.Context, roleNames []string) (map[string]struct{}, error) {
	s.called = append(s.called, roleNames...)
	if s.err != nil {
		return nil, s.err
	}
	return s.grants, nil
}

func TestEngineHasPermission(t *testing.T) {
	resolver := &stubResolver{grants: map[string]struct{}{
		"reports":      {},
		"users-create": {},
	}}
	engine := NewEngine(resolver)
	p := Principal{UserID: 1, Roles: []string{"admin"}}

	allowed, err := engine.HasPermission(context.Background(), p, "reports")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = engine.HasPermission(context.Background(), p, "users-delete")
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.Equal(t, []string{"admin", "admin"}, resolver.called)
}

func TestEngineHasPermissionEmptyIdentifier(t *testing.T) {
	resolver := &stubResolver{grants: map[string]struct{}{"reports": {}}}
	engine := NewEngine(resolver)

	allowed, err := engine.HasPermission(context.Background(), Principal{Roles: []string{"admin"}}, "")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Empty(t, resolver.called)
}

func TestEngineHasPermissionResolverError(t *testing.T) {
	resolver := &stubResolver{err: errors.New("registry unavailable")}
	engine := NewEngine(resolver)

	allowed, err := engine.HasPermission(context.Background(), Principal{Roles: []string{"admin"}}, "reports")
	require.Error(t, err)
	assert.False(t, allowed)
}

func TestEngineHasPermissionNoRoles(t *testing.T) {
	resolver := &stubResolver{grants: map[string]struct{}{}}
	engine := NewEngine(resolver)

	allowed, err := engine.HasPermission(context.Background(), Principal{}, "reports")
	require.NoError(t, err)
	assert.False(t, allowed)
}
