package migration

import (
	"github.com/smallbiznis/catalog/internal/config"
	"github.com/smallbiznis/catalog/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		if err := seed.EnsureDefaultCategories(conn); err != nil {
			return err
		}
		if err := seed.EnsureBootstrapToken(conn, log, cfg.BootstrapAPIToken); err != nil {
			return err
		}
		if cfg.SeedDemoData {
			return seed.EnsureDemoProducts(conn)
		}
		return nil
	}),
)
