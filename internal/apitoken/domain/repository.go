package domain

import "context"

type Repository interface {
	Create(ctx context.Context, token *APIToken) error
	// FindByHash returns nil when no token matches.
	FindByHash(ctx context.Context, hash string) (*APIToken, error)
	FindByName(ctx context.Context, name string) (*APIToken, error)
	TouchLastUsed(ctx context.Context, id int64) error
}
