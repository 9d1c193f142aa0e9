package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type File struct {
	ID       string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID   string `gorm:"type:varchar(36);not null;uniqueIndex:uidx_files_user_hash" json:"-"`
	Filename string `gorm:"not null" json:"filename"`
	MimeType string `gorm:"not null" json:"mimeType"`
	Size     int64  `gorm:"not null" json:"size"`
	// Hex encoded sha256 of the contents. A user can't store the same bytes twice
	Hash string `gorm:"size:64;not null;uniqueIndex:uidx_files_user_hash" json:"hash"`

	// Set when the bytes live in an object store instead of Data
	StorageKey string `json:"-"`
	Data       []byte `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (f *File) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}

	return nil
}
