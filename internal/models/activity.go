package models

import (
	"gorm.io/datatypes"
)

// Audit action codes emitted by the write paths. Free-form uppercase tokens;
// the constants below cover the built-in handlers.
const (
	ActionLogin           = "LOGIN"
	ActionLoginFailed     = "LOGIN_FAILED"
	ActionLogout          = "LOGOUT"
	ActionRegister        = "REGISTER"
	ActionProfileUpdate   = "PROFILE_UPDATE"
	ActionPasswordChange  = "PASSWORD_CHANGE"
	ActionAvatarUpdate    = "AVATAR_UPDATE"
	ActionUserCreate      = "USER_CREATE"
	ActionUserUpdate      = "USER_UPDATE"
	ActionUserDelete      = "USER_DELETE"
	ActionUserRestore     = "USER_RESTORE"
	ActionRoleCreate      = "ROLE_CREATE"
	ActionRoleUpdate      = "ROLE_UPDATE"
	ActionRoleDelete      = "ROLE_DELETE"
	ActionRoleRestore     = "ROLE_RESTORE"
	ActionRolePermsUpdate = "ROLE_PERMISSIONS_UPDATE"
	ActionPermCreate      = "PERMISSION_CREATE"
	ActionPermUpdate      = "PERMISSION_UPDATE"
	ActionPermDelete      = "PERMISSION_DELETE"
	ActionPermRestore     = "PERMISSION_RESTORE"
	ActionLogRestore      = "ACTIVITY_LOG_RESTORE"
	ActionAuditPurge      = "AUDIT_PURGE_REQUESTED"
)

// ActivityLog is one append-only audit entry. UserName is denormalized so the
// entry survives deletion of the actor. Entries are never mutated after
// creation except for soft delete and restore.
type ActivityLog struct {
	Base
	UserID      int64          `gorm:"index;not null" json:"userId"`
	UserName    string         `json:"userName,omitempty"`
	Action      string         `gorm:"index;not null" json:"action"`
	Module      string         `json:"module,omitempty"`
	Description string         `json:"description,omitempty"`
	Details     datatypes.JSON `json:"details,omitempty"`
	IPAddress   string         `json:"ipAddress,omitempty"`
	UserAgent   string         `json:"userAgent,omitempty"`
	CreatedBy   string         `gorm:"default:'system'" json:"createdBy"`
}
