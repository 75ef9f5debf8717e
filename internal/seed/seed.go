package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	apitokendomain "github.com/smallbiznis/catalog/internal/apitoken/domain"
	categorydomain "github.com/smallbiznis/catalog/internal/category/domain"
	pkgdb "github.com/smallbiznis/catalog/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const bootstrapTokenName = "bootstrap"

var defaultCategories = []string{
	"Electronics",
	"Books",
	"Clothing",
	"Home",
	"Toys",
}

// EnsureDefaultCategories seeds the starter categories for startup bootstrap.
// Existing categories are left untouched.
func EnsureDefaultCategories(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range defaultCategories {
			var existing categorydomain.Category
			err := tx.WithContext(ctx).Where("name = ?", name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			now := time.Now().UTC()
			category := categorydomain.Category{
				ID:        node.Generate().Int64(),
				Name:      name,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.WithContext(ctx).Create(&category).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureBootstrapToken seeds the initial API token so the JSON API is usable
// out of the box. When rawToken is empty a random token is generated and
// logged exactly once; only its hash is persisted either way.
func EnsureBootstrapToken(db *gorm.DB, log *zap.Logger, rawToken string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var existing apitokendomain.APIToken
	err = db.WithContext(ctx).Where("name = ?", bootstrapTokenName).First(&existing).Error
	if err == nil {
		if rawToken != "" && existing.TokenHash != apitokendomain.HashToken(rawToken) {
			return db.WithContext(ctx).
				Model(&apitokendomain.APIToken{}).
				Where("id = ?", existing.ID).
				Update("token_hash", apitokendomain.HashToken(rawToken)).Error
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	generated := false
	if rawToken == "" {
		rawToken, err = apitokendomain.GenerateToken()
		if err != nil {
			return err
		}
		generated = true
	}

	token := apitokendomain.APIToken{
		ID:        node.Generate().Int64(),
		Name:      bootstrapTokenName,
		TokenHash: apitokendomain.HashToken(rawToken),
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&token).Error; err != nil {
		// Another instance booting at the same time may have won the insert.
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}

	if generated && log != nil {
		log.Info("generated bootstrap API token; store it now, it will not be shown again",
			zap.String("token", rawToken))
	}
	return nil
}
