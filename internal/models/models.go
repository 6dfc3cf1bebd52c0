package models

import (
	"fmt"
	"strings"
	"time"
)

// Built-in role names.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account in the credential store. Roles is a denormalized list of
// role names, not a foreign-key relation: renaming or deleting a Role does not
// cascade into this column.
type User struct {
	Base
	Name      string     `gorm:"size:100;not null" json:"name" validate:"required,min=2"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password  string     `gorm:"not null" json:"-"`
	Roles     StringList `gorm:"type:text" json:"roles"`
	Active    bool       `gorm:"not null" json:"active"`
	Phone     string     `json:"phone,omitempty"`
	AvatarURL string     `json:"avatarUrl,omitempty"`
}

// HasRole reports whether the user carries the given role name.
func (u *User) HasRole(role string) bool {
	return u.Roles.Contains(role)
}

// Role groups permission identifiers under a name. Permissions holds opaque
// identifier strings; a role with zero permissions is valid and grants
// nothing. Duplicates are removed before save (see hooks.go).
type Role struct {
	Base
	Name        string     `gorm:"uniqueIndex;not null" json:"name" validate:"required,min=2"`
	Description string     `json:"description"`
	Permissions StringList `gorm:"type:text" json:"permissions"`
}

// PermissionSeparator joins controller and action in controller-type
// permission identifiers. Identifiers containing it are reported as
// controller permissions when splitting a role's flat list; identifiers
// without it as feature permissions. This is a reporting heuristic only —
// the Permission entity's Type field is the ground truth where a Permission
// row is in hand.
const PermissionSeparator = "-"

// Permission types.
const (
	PermissionTypeFeature    = "feature"
	PermissionTypeController = "controller"
)

// Permission is an atomic capability definition. Exactly one shape is
// populated per type: feature permissions carry Name+Category, controller
// permissions carry Controller+Action+Route.
type Permission struct {
	Base
	Type        string `gorm:"not null" json:"type" validate:"required,permission_type"`
	Name        string `json:"name,omitempty"`
	Category    string `json:"category,omitempty"`
	Controller  string `json:"controller,omitempty"`
	Action      string `json:"action,omitempty"`
	Route       string `json:"route,omitempty"`
	Description string `json:"description,omitempty"`
}

// Identifier returns the string under which this permission appears in a
// role's permission list.
func (p *Permission) Identifier() string {
	if p.Type == PermissionTypeController {
		return p.Controller + PermissionSeparator + p.Action
	}
	return p.Name
}

// ValidateShape enforces the exactly-one-shape invariant.
func (p *Permission) ValidateShape() error {
	switch p.Type {
	case PermissionTypeFeature:
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Category) == "" {
			return fmt.Errorf("feature permission requires name and category")
		}
		if p.Controller != "" || p.Action != "" || p.Route != "" {
			return fmt.Errorf("feature permission must not carry controller fields")
		}
	case PermissionTypeController:
		if strings.TrimSpace(p.Controller) == "" || strings.TrimSpace(p.Action) == "" || strings.TrimSpace(p.Route) == "" {
			return fmt.Errorf("controller permission requires controller, action and route")
		}
		if p.Name != "" || p.Category != "" {
			return fmt.Errorf("controller permission must not carry feature fields")
		}
	default:
		return fmt.Errorf("unknown permission type %q", p.Type)
	}
	return nil
}

// AuthSession records an issued token for auditing. Token validation never
// consults these rows: role claims are a snapshot at issuance time and there
// is no revocation list.
type AuthSession struct {
	Base
	UserID    int64     `gorm:"index;not null" json:"userId"`
	User      *User     `json:"user,omitempty"`
	TokenID   string    `gorm:"index;not null" json:"tokenId"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}
