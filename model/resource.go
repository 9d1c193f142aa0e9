package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Resource struct {
	ID          string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string  `gorm:"type:varchar(36);not null;index" json:"-"`
	Title       string  `gorm:"not null" json:"title"`
	Description *string `json:"description"`
	// One of link, document, contact, event, note. Never changes after creation
	Type string `gorm:"size:16;not null;index" json:"type"`
	// Validated against Type before every write
	Content    datatypes.JSONMap `gorm:"not null" json:"content"`
	IsFavorite bool              `gorm:"not null;default:false" json:"isFavorite"`
	CategoryID *string           `gorm:"type:varchar(36);index" json:"-"`
	CreatedAt  time.Time         `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`

	// Lower-cased title and description. SQLite's LOWER only folds ASCII so
	// searches match against this instead.
	SearchText string `gorm:"not null;default:''" json:"-"`

	Category *Category `gorm:"constraint:OnDelete:SET NULL" json:"category"`
	Tags     []Tag     `gorm:"many2many:resource_tags" json:"tags"`
}

func (r *Resource) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	return nil
}

// SearchText is the value stored in search_text for a title and description
func SearchText(title string, description *string) string {
	if description == nil {
		return strings.ToLower(title)
	}

	return strings.ToLower(title + "\n" + *description)
}

func (r *Resource) BeforeSave(*gorm.DB) error {
	r.SearchText = SearchText(r.Title, r.Description)
	return nil
}

// ResourceTag is the join table between resources and tags
type ResourceTag struct {
	ResourceID string `gorm:"primaryKey;type:varchar(36)"`
	TagID      string `gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt  time.Time
}
