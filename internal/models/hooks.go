package models

import (
	"strings"

	"gorm.io/gorm"
)

// BeforeSave normalizes the denormalized role list. New accounts default to
// the "user" role, matching the registration flow.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Roles = u.Roles.Dedupe()
	if len(u.Roles) == 0 {
		u.Roles = StringList{RoleUser}
	}
	return nil
}

// BeforeSave de-duplicates the permission identifier set. Duplicates are not
// rejected at write time; they are silently collapsed here so the stored set
// is canonical.
func (r *Role) BeforeSave(tx *gorm.DB) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Permissions = r.Permissions.Dedupe()
	return nil
}

// BeforeSave rejects permissions violating the one-shape-per-type invariant.
func (p *Permission) BeforeSave(tx *gorm.DB) error {
	return p.ValidateShape()
}
