package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMonthFormat  = errors.New("month must be in format YYYY-MM")
	ErrInvalidCategoryType = errors.New("category type must be 'income' or 'expense'")
	ErrEmptyName           = errors.New("empty category name")
	ErrMissingCategory     = errors.New("missing category id")
	ErrDuplicateBudget     = errors.New("budget already exists for this category and month")
	ErrNotFound            = errors.New("not found")
)

// NotFoundError reports an entity that does not exist or belongs to another user.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Entity, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound returns a *NotFoundError for entity id.
func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}
