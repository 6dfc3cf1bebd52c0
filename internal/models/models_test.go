package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"admin", "user"}

	value, err := list.Value()
	require.NoError(t, err)
	assert.Equal(t, "admin,user", value)

	var parsed StringList
	require.NoError(t, parsed.Scan("admin,user"))
	assert.Equal(t, list, parsed)
}

func TestStringListScanEmpty(t *testing.T) {
	var parsed StringList
	require.NoError(t, parsed.Scan(""))
	assert.Empty(t, parsed)

	require.NoError(t, parsed.Scan(nil))
	assert.Empty(t, parsed)
}

func TestStringListDedupe(t *testing.T) {
	list := StringList{"a", "b", "a", "c", "b"}
	assert.Equal(t, StringList{"a", "b", "c"}, list.Dedupe())
}

func TestUserHasRole(t *testing.T) {
	u := User{Roles: StringList{"admin", "user"}}
	assert.True(t, u.HasRole("admin"))
	assert.False(t, u.HasRole("manager"))
}

func TestPermissionIdentifier(t *testing.T) {
	feature := Permission{Type: PermissionTypeFeature, Name: "reports", Category: "analytics"}
	assert.Equal(t, "reports", feature.Identifier())

	controller := Permission{Type: PermissionTypeController, Controller: "users", Action: "create", Route: "/api/users"}
	assert.Equal(t, "users-create", controller.Identifier())
}

func TestPermissionValidateShape(t *testing.T) {
	tests := []struct {
		name    string
		perm    Permission
		wantErr bool
	}{
		{
			name: "valid feature",
			perm: Permission{Type: PermissionTypeFeature, Name: "reports", Category: "analytics"},
		},
		{
			name: "valid controller",
			perm: Permission{Type: PermissionTypeController, Controller: "users", Action: "create", Route: "/api/users"},
		},
		{
			name:    "feature missing category",
			perm:    Permission{Type: PermissionTypeFeature, Name: "reports"},
			wantErr: true,
		},
		{
			name:    "feature carrying controller fields",
			perm:    Permission{Type: PermissionTypeFeature, Name: "reports", Category: "analytics", Controller: "users"},
			wantErr: true,
		},
		{
			name:    "controller missing route",
			perm:    Permission{Type: PermissionTypeController, Controller: "users", Action: "create"},
			wantErr: true,
		},
		{
			name:    "controller carrying feature fields",
			perm:    Permission{Type: PermissionTypeController, Controller: "users", Action: "create", Route: "/api/users", Name: "x"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			perm:    Permission{Type: "custom", Name: "x", Category: "y"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.perm.ValidateShape()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
