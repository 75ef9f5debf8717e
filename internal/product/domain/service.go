package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/catalog/pkg/db/pagination"
)

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id int64) (*Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id int64) error
	// BulkDelete soft-deletes the given ids. With strict set, every id must
	// reference an existing record or nothing is deleted.
	BulkDelete(ctx context.Context, ids []int64, strict bool) (int64, error)
	// ExportRows materializes every record matching the filter, newest first.
	ExportRows(ctx context.Context, filter Filter) ([]Product, error)
}

type ListRequest struct {
	Filter
	Page     int
	PageSize int
}

type CreateRequest struct {
	Name        string
	CategoryID  *int64
	Description *string
	Price       *float64
	Stock       *int
	Enabled     *bool
}

type UpdateRequest struct {
	ID          int64
	Name        *string
	CategoryID  *int64
	Description *string
	Price       *float64
	Stock       *int
	Enabled     *bool
}

type CategoryResponse struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

type Response struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       float64          `json:"price"`
	Stock       int              `json:"stock"`
	Enabled     bool             `json:"enabled"`
	Category    CategoryResponse `json:"category"`
	CreatedAt   time.Time        `json:"created_at"`
}

type ListResponse struct {
	Data []Response          `json:"data"`
	Meta pagination.PageInfo `json:"meta"`
}

var (
	ErrNotFound        = errors.New("product_not_found")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidCategory = errors.New("invalid_category_id")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidStock    = errors.New("invalid_stock")
	ErrEmptyIDs        = errors.New("invalid_ids")
	ErrUnknownIDs      = errors.New("unknown_ids")
)
