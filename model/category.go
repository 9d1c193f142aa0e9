package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID     string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID string `gorm:"type:varchar(36);not null;uniqueIndex:uidx_categories_user_name" json:"-"`
	// Unique per user, not globally
	Name      string    `gorm:"size:50;not null;uniqueIndex:uidx_categories_user_name" json:"name"`
	Color     *string   `gorm:"size:7" json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Only filled by queries that select it
	ResourceCount int64 `gorm:"->;-:migration" json:"resourceCount"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	return nil
}
