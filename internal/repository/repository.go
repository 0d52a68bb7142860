package repository

import (
	"context"
	"errors"
	"time"

	"school-service/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no document
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a unique index
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository persists users
type UserRepository interface {
	// Create inserts the user. A second user with the same email yields ErrDuplicate.
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListBySchool(ctx context.Context, schoolID string) ([]model.User, error)
	// SetSchool sets schoolId and updated on the user with the given id and
	// reports how many users matched. Zero matches is not an error.
	SetSchool(ctx context.Context, userID string, schoolID *string, at time.Time) (int64, error)
}

// SchoolRepository persists schools
type SchoolRepository interface {
	// Create inserts the school under its caller-supplied id. A reused id yields ErrDuplicate.
	Create(ctx context.Context, school *model.School) error
	List(ctx context.Context) ([]model.School, error)
}
