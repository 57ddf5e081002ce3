// Package repository implements the data access layer for users, posts and comments.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
