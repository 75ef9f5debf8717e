package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	apitokendomain "github.com/smallbiznis/catalog/internal/apitoken/domain"
	apitokenrepository "github.com/smallbiznis/catalog/internal/apitoken/repository"
	categorydomain "github.com/smallbiznis/catalog/internal/category/domain"
	categoryrepository "github.com/smallbiznis/catalog/internal/category/repository"
	"github.com/smallbiznis/catalog/internal/config"
	"github.com/smallbiznis/catalog/internal/observability"
	productdomain "github.com/smallbiznis/catalog/internal/product/domain"
	productrepository "github.com/smallbiznis/catalog/internal/product/repository"
	productservice "github.com/smallbiznis/catalog/internal/product/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testAPIToken = "cat_test_token"

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	server  *Server
	handler http.Handler
	db      *gorm.DB
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(
		&categorydomain.Category{},
		&productdomain.Product{},
		&apitokendomain.APIToken{},
	))

	require.NoError(t, db.Create(&apitokendomain.APIToken{
		ID:        1,
		Name:      "test",
		TokenHash: apitokendomain.HashToken(testAPIToken),
		CreatedAt: time.Now().UTC(),
	}).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	settings := config.NewStaticCatalogConfigHolder(config.DefaultCatalogConfig())
	productRepo := productrepository.Provide(db)
	categoryRepo := categoryrepository.Provide(db)
	productSvc := productservice.New(productservice.Params{
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       productRepo,
		Categories: categoryRepo,
		Settings:   settings,
	})

	engine, err := NewEngine(observability.Config{}, nil)
	require.NoError(t, err)

	srv := NewServer(ServerParams{
		Gin:        engine,
		Cfg:        config.Config{HTTPAddr: ":0"},
		DB:         db,
		Settings:   settings,
		ProductSvc: productSvc,
		Categories: categoryRepo,
		Tokens:     apitokenrepository.Provide(db),
	})

	return &testApp{
		server:  srv,
		handler: MethodOverride(engine),
		db:      db,
	}
}

func (a *testApp) seedCategory(t *testing.T, id int64, name string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, a.db.Create(&categorydomain.Category{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)
}

func (a *testApp) seedProduct(t *testing.T, id, categoryID int64, name string, enabled bool, createdAt time.Time) {
	t.Helper()
	require.NoError(t, a.db.Create(&productdomain.Product{
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
