package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	categorydomain "github.com/smallbiznis/catalog/internal/category/domain"
	"github.com/smallbiznis/catalog/internal/product/domain"
	"github.com/smallbiznis/catalog/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(&categorydomain.Category{}, &domain.Product{}))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, id int64, name string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, db.Create(&categorydomain.Category{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)
}

func seedProduct(t *testing.T, db *gorm.DB, id, categoryID int64, name string, enabled bool, createdAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&domain.Product{
		ID:         id,
		CategoryID: categoryID,
		Name:       name,
		Price:      10,
		Stock:      5,
		Enabled:    enabled,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}).Error)
}

func TestListOrdersNewestFirstWithIDTieBreak(t *testing.T) {
	db := setupDB(t)
	repo := Provide(db)
	ctx := context.Background()

	seedCategory(t, db, 1, "Electronics")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedProduct(t, db, 101, 1, "Older", true, base.Add(-time.Hour))
	seedProduct(t, db, 102, 1, "Newer", true, base)
	// Same timestamp: the higher id wins the tie.
	seedProduct(t, db, 103, 1, "Tie Low", true, base)

	items, total, err := repo.List(ctx, domain.Filter{}, pagination.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	assert.Equal(t, int64(103), items[0].ID)
	assert.Equal(t, int64(102), items[1].ID)
	assert.Equal(t, int64(101), items[2].ID)
}

func TestListFiltersByCategoryID(t *testing.T) {
	db := setupDB(t)
	repo := Provide(db)
	ctx := context.Background()

	seedCategory(t, db, 1, "Electronics")
	seedCategory(t, db, 2, "Books")
	now := time.Now().UTC()
	seedProduct(t, db, 101, 1, "Phone", true, now)
	seedProduct(t, db, 102, 2, "Novel", true, now)

	categoryID := int64(2)
	items, total, err := repo.List(ctx, domain.Filter{CategoryID: &categoryID}, pagination.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, int64(102), items[0].ID)
}

func TestListFiltersByCategoryNameSubstring(t *testing.T) {
	db := setupDB(t)
	repo := Provide(db)
	ctx := context.Background()

	seedCategory(t, db, 1, "Electronics")
	seedCategory(t, db, 2, "Books")
	now := time.Now().UTC()
	seedProduct(t, db, 101, 1, "Phone", true, now)
	seedProduct(t, db, 102, 2, "Novel", true, now)

	items, total, err := repo.List(ctx, domain.Filter{CategoryName: "TRON"}, pagination.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, int64(101), items[0].ID)
}

func TestListCategoryIDTakesPrecedenceOverName(t *testing.T) {
	db := setupDB(t)
	repo := Provide(db)
	ctx := context.Background()

	seedCategory(t, db, 1, "Electronics")
	seedCategory(t, db, 2, "Books")
	now := time.Now().UTC()
	seedProduct(t, db, 101, 1, "Phone", true, now)
	seedProduct(t, db, 102, 2, "Novel", true, now)

	categoryID := int64(2)
	items, _, err := repo.List(ctx, domain.Filter{
		CategoryID:   &categoryID,
		CategoryName: "electronics",
	}, pagination.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(102), items[0].ID)
}

func TestListFiltersByEnabled(t *testing.T) {
	db := setupDB(t)
	repo := Provide(db)
	ctx := context.Background()

	seedCategory(t, db, 1, "Electronics")
	now := time.Now().UTC()
	seedProduct(t, db, 101, 1, "On", true, now)
	seedProduct(t, db, 102, 1, "Off", false, now)

	disabled := false
	items, total, err := repo.List(ctx, domain.Filter{Enabled: &disabled}, pagination.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, int64(102), items[0].ID)
}

func TestListPaginates(t *testing.T) {
	db := setupDB(t)
	repo := Provide(db)
	ctx := context.Background()

	seedCategory(t, db, 1, "Electronics")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedProduct(t, db, int64(100+i), 1, fmt.Sprintf("Item %d", i), true, base.Add(time.Duration(i)*time.Minute))
	}

	items, total, err := repo.List(ctx, domain.Filter{}, pagination.Pagination{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 2)
	assert.Equal(t, int64(102), items[0].ID)
	assert.Equal(t, int64(101), items[1].ID)
}

func TestListExcludesSoftDeleted(t *testing.T) {
	db := setupDB(t)
	repo := Provide(db)
	ctx := context.Background()

	seedCategory(t, db, 1, "Electronics")
	now := time.Now().UTC()
	seedProduct(t, db, 101, 1, "Kept", true, now)
	seedProduct(t, db, 102, 1, "Gone", true, now)

	found, err := repo.SoftDelete(ctx, 102)
	require.NoError(t, err)
	assert.True(t, found)

	items, total, err := repo.List(ctx, domain.Filter{}, pagination.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, int64(101), items[0].ID)

	// Deleted row stays in the table with a tombstone.
	var count int64
	require.NoError(t, db.Table("products").Where("deleted_at IS NOT NULL").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindByIDReturnsNilForDeleted(t *testing.T) {
	db := setupDB(t)
	repo := Provide(db)
	ctx := context.Background()

	seedCategory(t, db, 1, "Electronics")
	seedProduct(t, db, 101, 1, "Phone", true, time.Now().UTC())

	_, err := repo.SoftDelete(ctx, 101)
	require.NoError(t, err)

	item, err := repo.FindByID(ctx, 101)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestSoftDeleteUnknownID(t *testing.T) {
	db := setupDB(t)
	repo := Provide(db)

	found, err := repo.SoftDelete(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSoftDeleteManyCountsRows(t *testing.T) {
	db := setupDB(t)
	repo := Provide(db)
	ctx := context.Background()

	seedCategory(t, db, 1, "Electronics")
	now := time.Now().UTC()
	seedProduct(t, db, 101, 1, "A", true, now)
	seedProduct(t, db, 102, 1, "B", true, now)

	deleted, err := repo.SoftDeleteMany(ctx, []int64{101, 102, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestFindExistingIDsIncludesDeleted(t *testing.T) {
	db := setupDB(t)
	repo := Provide(db)
	ctx := context.Background()

	seedCategory(t, db, 1, "Electronics")
	now := time.Now().UTC()
	seedProduct(t, db, 101, 1, "A", true, now)
	seedProduct(t, db, 102, 1, "B", true, now)

	_, err := repo.SoftDelete(ctx, 102)
	require.NoError(t, err)

	existing, err := repo.FindExistingIDs(ctx, []int64{101, 102, 999})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{101, 102}, existing)
}

func TestFindByIDPreloadsCategory(t *testing.T) {
	db := setupDB(t)
	repo := Provide(db)
	ctx := context.Background()

	seedCategory(t, db, 1, "Electronics")
	seedProduct(t, db, 101, 1, "Phone", true, time.Now().UTC())

	item, err := repo.FindByID(ctx, 101)
	require.NoError(t, err)
	require.NotNil(t, item)
	require.NotNil(t, item.Category)
	assert.Equal(t, "Electronics", item.Category.Name)
}
