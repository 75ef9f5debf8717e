package domain

import (
	"context"

	"github.com/smallbiznis/catalog/pkg/db/pagination"
)

// Filter is the query descriptor shared by the list, export, and API
// surfaces. Zero values mean "no constraint". CategoryID takes precedence
// over CategoryName when both are set.
type Filter struct {
	CategoryID   *int64
	CategoryName string
	Enabled      *bool
}

type Repository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, filter Filter, pag pagination.Pagination) ([]Product, int64, error)
	FindAllFiltered(ctx context.Context, filter Filter) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	SoftDelete(ctx context.Context, id int64) (bool, error)
	SoftDeleteMany(ctx context.Context, ids []int64) (int64, error)
	FindExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}
