package repository

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/catalog/internal/apitoken/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, token *domain.APIToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *repo) FindByHash(ctx context.Context, hash string) (*domain.APIToken, error) {
	var t domain.APIToken
	err := r.db.WithContext(ctx).First(&t, "token_hash = ?", hash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) FindByName(ctx context.Context, name string) (*domain.APIToken, error) {
	var t domain.APIToken
	err := r.db.WithContext(ctx).First(&t, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) TouchLastUsed(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.APIToken{}).
		Where("id = ?", id).
		Update("last_used_at", time.Now().UTC()).Error
}
