package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Base contains common columns for all tables. DeletedAt is the soft-delete
// marker: rows with a non-nil value are excluded from default queries and can
// be brought back via restore.
type Base struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `gorm:"index" json:"deletedAt,omitempty"`
}

// IsDeleted reports whether the row is currently soft-deleted.
func (b *Base) IsDeleted() bool {
	return b.DeletedAt != nil
}

// StringList stores a list of strings in a single text column, comma
// separated. Used for the denormalized role names on User and permission
// identifiers on Role; these are plain strings, not foreign keys.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "", nil
	}
	return strings.Join(l, ","), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	if raw == "" {
		*l = StringList{}
		return nil
	}
	*l = StringList(strings.Split(raw, ","))
	return nil
}

// Contains reports whether the list holds the given value.
func (l StringList) Contains(value string) bool {
	for _, item := range l {
		if item == value {
			return true
		}
	}
	return false
}

// Dedupe returns the list with duplicates and blank entries removed,
// preserving first-seen order.
func (l StringList) Dedupe() StringList {
	seen := make(map[string]struct{}, len(l))
	out := make(StringList, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
