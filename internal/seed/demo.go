package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	categorydomain "github.com/smallbiznis/catalog/internal/category/domain"
	productdomain "github.com/smallbiznis/catalog/internal/product/domain"
	"gorm.io/gorm"
)

type demoProduct struct {
	category    string
	name        string
	description string
	price       float64
	stock       int
	enabled     bool
}

var demoProducts = []demoProduct{
	{"Electronics", "Wireless Headphones", "Over-ear, 30h battery", 129.99, 42, true},
	{"Electronics", "USB-C Charger 65W", "GaN fast charger", 39.90, 120, true},
	{"Books", "The Pragmatic Programmer", "20th anniversary edition", 44.50, 15, true},
	{"Clothing", "Merino Wool Sweater", "Mid-weight, navy", 89.00, 8, false},
	{"Home", "Cast Iron Skillet", "12 inch, pre-seasoned", 34.95, 23, true},
	{"Toys", "Wooden Building Blocks", "100 piece set", 24.99, 0, true},
}

// EnsureDemoProducts seeds sample products for local evaluation. It is a
// no-op when the products table already has rows.
func EnsureDemoProducts(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&productdomain.Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		var categories []categorydomain.Category
		if err := tx.WithContext(ctx).Find(&categories).Error; err != nil {
			return err
		}
		byName := make(map[string]int64, len(categories))
		for _, c := range categories {
			byName[c.Name] = c.ID
		}

		for _, d := range demoProducts {
			categoryID, ok := byName[d.category]
			if !ok {
				continue
			}

			now := time.Now().UTC()
			description := d.description
			p := productdomain.Product{
				ID:          node.Generate().Int64(),
				CategoryID:  categoryID,
				Name:        d.name,
				Description: &description,
				Price:       d.price,
				Stock:       d.stock,
				Enabled:     d.enabled,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.WithContext(ctx).Create(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
