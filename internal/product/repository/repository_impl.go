package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/catalog/internal/product/domain"
	"github.com/smallbiznis/catalog/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

// query builds the filtered product statement shared by the paginated list
// and the full export materialization. Soft-deleted rows are excluded by the
// gorm default scope.
func (r *repo) query(ctx context.Context, filter domain.Filter) *gorm.DB {
	stmt := r.db.WithContext(ctx).Model(&domain.Product{})

	switch {
	case filter.CategoryID != nil:
		stmt = stmt.Where("products.category_id = ?", *filter.CategoryID)
	case strings.TrimSpace(filter.CategoryName) != "":
		needle := "%" + strings.ToLower(strings.TrimSpace(filter.CategoryName)) + "%"
		stmt = stmt.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("LOWER(categories.name) LIKE ?", needle)
	}

	if filter.Enabled != nil {
		stmt = stmt.Where("products.enabled = ?", *filter.Enabled)
	}

	return stmt
}

func (r *repo) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, filter domain.Filter, pag pagination.Pagination) ([]domain.Product, int64, error) {
	var total int64
	if err := r.query(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Product
	err := r.query(ctx, filter).
		Preload("Category").
		Order("products.created_at DESC, products.id DESC").
		Scopes(pag.Scope()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) FindAllFiltered(ctx context.Context, filter domain.Filter) ([]domain.Product, error) {
	var items []domain.Product
	err := r.query(ctx, filter).
		Preload("Category").
		Order("products.created_at DESC, products.id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return gorm.ErrInvalidData
	}
	return r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"category_id": product.CategoryID,
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"stock":       product.Stock,
			"enabled":     product.Enabled,
			"updated_at":  product.UpdatedAt,
		}).Error
}

func (r *repo) SoftDelete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) SoftDeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, "id IN ?", ids)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// FindExistingIDs checks physical presence, soft-deleted rows included, so
// re-deleting an already-deleted id stays a no-op instead of failing.
func (r *repo) FindExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&domain.Product{}).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error
	if err != nil {
		return nil, err
	}
	return existing, nil
}
