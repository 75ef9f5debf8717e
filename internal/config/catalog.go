package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// CatalogConfig holds tunable catalog behavior loaded from catalog.yml.
type CatalogConfig struct {
	DefaultPageSize int    `mapstructure:"defaultPageSize"`
	MaxPageSize     int    `mapstructure:"maxPageSize"`
	ExportFileName  string `mapstructure:"exportFileName"`
}

func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		DefaultPageSize: 10,
		MaxPageSize:     100,
		ExportFileName:  "products.xlsx",
	}
}

// CatalogConfigHolder provides lock-free access to the current settings and
// swaps them atomically when the config file changes on disk.
type CatalogConfigHolder struct {
	current atomic.Value // holds CatalogConfig
}

func NewCatalogConfigHolder() (*CatalogConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("catalog")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/catalog")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultCatalogConfig()
	v.SetDefault("catalog.defaultPageSize", defaults.DefaultPageSize)
	v.SetDefault("catalog.maxPageSize", defaults.MaxPageSize)
	v.SetDefault("catalog.exportFileName", defaults.ExportFileName)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg CatalogConfig
	if err := v.UnmarshalKey("catalog", &cfg); err != nil {
		return nil, err
	}
	if err := validateCatalogConfig(cfg); err != nil {
		return nil, err
	}

	holder := &CatalogConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated CatalogConfig
		if err := v.UnmarshalKey("catalog", &updated); err != nil {
			log.Printf("[catalog-config] reload failed: %v", err)
			return
		}
		if err := validateCatalogConfig(updated); err != nil {
			log.Printf("[catalog-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[catalog-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *CatalogConfigHolder) Get() CatalogConfig {
	return h.current.Load().(CatalogConfig)
}

// NewStaticCatalogConfigHolder wraps fixed settings, bypassing the file
// watcher. Used by tests.
func NewStaticCatalogConfigHolder(cfg CatalogConfig) *CatalogConfigHolder {
	holder := &CatalogConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateCatalogConfig(cfg CatalogConfig) error {
	if cfg.DefaultPageSize < 1 {
		return errors.New("catalog.defaultPageSize must be positive")
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		return errors.New("catalog.maxPageSize cannot be below catalog.defaultPageSize")
	}
	if strings.TrimSpace(cfg.ExportFileName) == "" {
		return errors.New("catalog.exportFileName cannot be empty")
	}
	return nil
}
