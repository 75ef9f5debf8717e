package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/catalog/internal/apitoken"
	apitokendomain "github.com/smallbiznis/catalog/internal/apitoken/domain"
	"github.com/smallbiznis/catalog/internal/category"
	categorydomain "github.com/smallbiznis/catalog/internal/category/domain"
	"github.com/smallbiznis/catalog/internal/config"
	"github.com/smallbiznis/catalog/internal/observability"
	obsmiddleware "github.com/smallbiznis/catalog/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/catalog/internal/observability/metrics"
	obstracing "github.com/smallbiznis/catalog/internal/observability/tracing"
	"github.com/smallbiznis/catalog/internal/product"
	productdomain "github.com/smallbiznis/catalog/internal/product/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	apitoken.Module,
	category.Module,
	product.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r, nil
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) (*gin.Engine, error) {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: MethodOverride(r),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	settings   *config.CatalogConfigHolder
	productSvc productdomain.Service
	categories categorydomain.Repository
	tokens     apitokendomain.Repository
	obsMetrics *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	Settings   *config.CatalogConfigHolder
	ProductSvc productdomain.Service
	Categories categorydomain.Repository
	Tokens     apitokendomain.Repository
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		settings:   p.Settings,
		productSvc: p.ProductSvc,
		categories: p.Categories,
		tokens:     p.Tokens,
		obsMetrics: p.ObsMetrics,
	}

	svc.registerAPIRoutes()
	svc.registerWebRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/products", s.TokenRequired(), s.ListProducts)
	api.POST("/products", s.TokenRequired(), s.CreateProduct)
	api.GET("/products/export", s.TokenRequired(), s.ExportProducts)
	api.GET("/products/:id", s.TokenRequired(), s.GetProductByID)
	api.PUT("/products/:id", s.TokenRequired(), s.UpdateProduct)
	api.PATCH("/products/:id", s.TokenRequired(), s.UpdateProduct)
	api.DELETE("/products/:id", s.TokenRequired(), s.DeleteProduct)
	api.POST("/products/bulk-delete", s.TokenRequired(), s.BulkDeleteProducts)
}

func (s *Server) registerWebRoutes() {
	s.engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/products")
	})

	web := s.engine.Group("/products")

	web.GET("", s.WebProductsIndex)
	web.GET("/create", s.WebProductCreateForm)
	web.POST("", s.WebProductStore)
	web.GET("/export", s.WebProductsExport)
	web.POST("/bulk-delete", s.WebProductsBulkDestroy)
	web.GET("/:id/edit", s.WebProductEditForm)
	web.PUT("/:id", s.WebProductUpdate)
	web.DELETE("/:id", s.WebProductDestroy)
}
