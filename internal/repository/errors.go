package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound covers both genuinely missing rows and rows owned by
	// another user; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate maps the storage layer's uniqueness violations.
	ErrDuplicate = errors.New("duplicate record")
)

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// isDuplicate recognizes unique-constraint violations from both the MySQL
// and SQLite drivers without importing either driver's error types.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
