package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"backoffice/internal/models"
)

// RolePermissions is a role's flat permission list split into the two kinds
// for reporting. The split is structural: identifiers containing the
// separator are treated as controller permissions, the rest as feature
// permissions. See models.PermissionSeparator for the caveat.
type RolePermissions struct {
	FeaturePermissions    []string `json:"featurePermissions"`
	ControllerPermissions []string `json:"controllerPermissions"`
}

// RoleService is the role registry.
type RoleService struct {
	*BaseServiceImpl[models.Role]
	db *gorm.DB
}

// NewRoleService creates a new role service.
func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{
		BaseServiceImpl: NewBaseService(db, models.Role{}),
		db:              db,
	}
}

// FindByName fetches a non-deleted role by name.
func (s *RoleService) FindByName(ctx context.Context, name string) (*models.Role, error) {
	return s.FindOne(ctx, map[string]interface{}{"name": strings.TrimSpace(name)})
}

// GetPermissions returns the role's permission identifiers split by kind.
func (s *RoleService) GetPermissions(ctx context.Context, id int64) (*RolePermissions, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return SplitPermissions(role.Permissions), nil
}

// UpdatePermissions replaces the role's entire permission set with the
// concatenation of the two lists. This is a full replace, not a merge;
// callers supply the complete desired set. Duplicates across the two lists
// collapse via the model's save hook.
func (s *RoleService) UpdatePermissions(ctx context.Context, id int64, perms RolePermissions) (*models.Role, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	combined := make(models.StringList, 0, len(perms.FeaturePermissions)+len(perms.ControllerPermissions))
	combined = append(combined, perms.FeaturePermissions...)
	combined = append(combined, perms.ControllerPermissions...)
	role.Permissions = combined
	if err := s.Save(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// ResolvePermissions unions the permission sets of the named roles. Unknown
// or soft-deleted role names resolve to nothing; the caller's claims may be
// stale relative to the registry and that is accepted.
func (s *RoleService) ResolvePermissions(ctx context.Context, roleNames []string) (map[string]struct{}, error) {
	resolved := make(map[string]struct{})
	if len(roleNames) == 0 {
		return resolved, nil
	}
	var roles []models.Role
	err := s.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Where("name IN ?", roleNames).
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		for _, perm := range role.Permissions {
			resolved[perm] = struct{}{}
		}
	}
	return resolved, nil
}

// SplitPermissions applies the structural separator rule to a flat list.
func SplitPermissions(perms models.StringList) *RolePermissions {
	split := &RolePermissions{
		FeaturePermissions:    []string{},
		ControllerPermissions: []string{},
	}
	for _, perm := range perms.Dedupe() {
		if strings.Contains(perm, models.PermissionSeparator) {
			split.ControllerPermissions = append(split.ControllerPermissions, perm)
		} else {
			split.FeaturePermissions = append(split.FeaturePermissions, perm)
		}
	}
	return split
}
