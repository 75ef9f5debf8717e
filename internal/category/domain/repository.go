package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("category_not_found")

// Repository reads category records. Categories are seeded out of band and
// never written through this interface.
type Repository interface {
	ListAll(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id int64) (*Category, error)
}
