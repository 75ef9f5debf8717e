package domain

import (
	"time"

	categorydomain "github.com/smallbiznis/catalog/internal/category/domain"
	"gorm.io/gorm"
)

type Product struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	CategoryID  int64          `json:"category_id" gorm:"not null;index"`
	Name        string         `json:"name" gorm:"type:text;not null"`
	Description *string        `json:"description,omitempty" gorm:"type:text"`
	Price       float64        `json:"price" gorm:"not null;default:0"`
	Stock       int            `json:"stock" gorm:"not null;default:0"`
	Enabled     bool           `json:"enabled" gorm:"not null;default:true"`
	CreatedAt   time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Joined category; nil when the foreign key is dangling.
	Category *categorydomain.Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Product) TableName() string { return "products" }
