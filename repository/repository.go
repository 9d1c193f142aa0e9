// Package repository wraps the gorm queries used by the services. Every
// lookup that touches user data is scoped by the owning user.
package repository

import (
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a row doesn't exist or belongs to someone else
	ErrNotFound = gorm.ErrRecordNotFound
	// ErrDuplicate is returned when a write hits a unique index
	ErrDuplicate = gorm.ErrDuplicatedKey
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere. Wildcards in s
// are escaped with a backslash.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func ownedBy(ownerID, id string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND user_id = ?", id, ownerID)
	}
}
