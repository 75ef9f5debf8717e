package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	categorydomain "github.com/smallbiznis/catalog/internal/category/domain"
	"github.com/smallbiznis/catalog/internal/config"
	"github.com/smallbiznis/catalog/internal/product/domain"
	"github.com/smallbiznis/catalog/pkg/db"
	"github.com/smallbiznis/catalog/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Categories categorydomain.Repository
	Settings   *config.CatalogConfigHolder
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	categories categorydomain.Repository
	settings   *config.CatalogConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("product.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		categories: p.Categories,
		settings:   p.Settings,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	settings := s.settings.Get()
	pag := pagination.Pagination{Page: req.Page, PageSize: req.PageSize}.
		Normalize(settings.DefaultPageSize, settings.MaxPageSize)

	items, total, err := s.repo.List(ctx, req.Filter, pag)
	if err != nil {
		return nil, err
	}

	data := make([]domain.Response, 0, len(items))
	for i := range items {
		data = append(data, toResponse(&items[i]))
	}

	return &domain.ListResponse{
		Data: data,
		Meta: pagination.BuildPageInfo(pag, total),
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Response, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.CategoryID == nil || *req.CategoryID <= 0 {
		return nil, domain.ErrInvalidCategory
	}
	if req.Price == nil || *req.Price < 0 {
		return nil, domain.ErrInvalidPrice
	}
	if req.Stock == nil || *req.Stock < 0 {
		return nil, domain.ErrInvalidStock
	}

	category, err := s.categories.FindByID(ctx, *req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrInvalidCategory
	}

	description := trimPtr(req.Description)

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:          s.genID.Generate().Int64(),
		CategoryID:  *req.CategoryID,
		Name:        name,
		Description: description,
		Price:       roundPrice(*req.Price),
		Stock:       *req.Stock,
		Enabled:     enabled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		// The referenced category can disappear between the lookup and the
		// insert; surface that as a validation failure, not a server error.
		if db.IsForeignKeyErr(err) {
			return nil, domain.ErrInvalidCategory
		}
		return nil, err
	}

	s.log.Info("product created", zap.Int64("product_id", p.ID), zap.Int64("category_id", p.CategoryID))

	p.Category = category
	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	if req.ID <= 0 {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.CategoryID != nil {
		if *req.CategoryID <= 0 {
			return nil, domain.ErrInvalidCategory
		}
		category, err := s.categories.FindByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrInvalidCategory
		}
		item.CategoryID = *req.CategoryID
	}
	if req.Description != nil {
		item.Description = trimPtr(req.Description)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, domain.ErrInvalidPrice
		}
		item.Price = roundPrice(*req.Price)
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, domain.ErrInvalidStock
		}
		item.Stock = *req.Stock
	}
	if req.Enabled != nil {
		item.Enabled = *req.Enabled
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, item); err != nil {
		if db.IsForeignKeyErr(err) {
			return nil, domain.ErrInvalidCategory
		}
		return nil, err
	}

	// Re-read so the response carries the joined category after a move.
	updated, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(updated)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}

	found, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrNotFound
	}

	s.log.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *Service) BulkDelete(ctx context.Context, ids []int64, strict bool) (int64, error) {
	unique, dropped := uniqueIDs(ids)
	if len(unique) == 0 && !(strict && dropped) {
		return 0, domain.ErrEmptyIDs
	}

	if strict {
		// Every submitted id must reference a stored record, a non-positive
		// id included, or nothing is deleted.
		if dropped {
			return 0, domain.ErrUnknownIDs
		}
		existing, err := s.repo.FindExistingIDs(ctx, unique)
		if err != nil {
			return 0, err
		}
		if len(existing) != len(unique) {
			return 0, domain.ErrUnknownIDs
		}
	}

	deleted, err := s.repo.SoftDeleteMany(ctx, unique)
	if err != nil {
		return 0, err
	}

	s.log.Info("products bulk deleted", zap.Int64("deleted", deleted), zap.Int("requested", len(unique)))
	return deleted, nil
}

func (s *Service) ExportRows(ctx context.Context, filter domain.Filter) ([]domain.Product, error) {
	return s.repo.FindAllFiltered(ctx, filter)
}

func toResponse(p *domain.Product) domain.Response {
	category := domain.CategoryResponse{ID: p.CategoryID}
	if p.Category != nil {
		name := p.Category.Name
		category.Name = &name
	}

	return domain.Response{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Enabled:     p.Enabled,
		Category:    category,
		CreatedAt:   p.CreatedAt,
	}
}

func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// uniqueIDs dedupes the input and reports whether any non-positive id was
// dropped along the way.
func uniqueIDs(ids []int64) ([]int64, bool) {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	dropped := false
	for _, id := range ids {
		if id <= 0 {
			dropped = true
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, dropped
}
