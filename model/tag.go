package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID     string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID string `gorm:"type:varchar(36);not null;uniqueIndex:uidx_tags_user_name" json:"-"`
	// Stored trimmed and lower-cased
	Name      string    `gorm:"size:30;not null;uniqueIndex:uidx_tags_user_name" json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	ResourceCount int64 `gorm:"->;-:migration" json:"resourceCount"`
}

func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	return nil
}
