package sqlite

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError checks for a primary key or unique constraint violation
func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyError checks for a foreign key violation
func isForeignKeyError(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// isNoRowsError checks if a single-row lookup found nothing
func isNoRowsError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
