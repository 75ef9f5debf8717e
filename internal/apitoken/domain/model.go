package domain

import "time"

// APIToken stores hashed bearer credentials for the JSON API.
type APIToken struct {
	ID         int64      `gorm:"primaryKey"`
	Name       string     `gorm:"type:text;not null"`
	TokenHash  string     `gorm:"column:token_hash;type:text;not null;uniqueIndex:ux_api_tokens_token_hash"`
	CreatedAt  time.Time  `gorm:"not null"`
	LastUsedAt *time.Time `gorm:"column:last_used_at"`
}

// TableName sets the database table name.
func (APIToken) TableName() string { return "api_tokens" }
