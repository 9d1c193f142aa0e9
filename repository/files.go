package repository

import (
	"bitwise74/resource-api/model"
	"context"

	"gorm.io/gorm"
)

type Files struct {
	db *gorm.DB
}

func NewFiles(db *gorm.DB) *Files {
	return &Files{db: db}
}

// ByHash looks up the owner's file with the given content hash. The
// payload isn't loaded.
func (r *Files) ByHash(ctx context.Context, ownerID, hash string) (*model.File, error) {
	var f model.File

	err := r.db.
		WithContext(ctx).
		Omit("data").
		Where("user_id = ? AND hash = ?", ownerID, hash).
		First(&f).
		Error
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// Get returns the owner's file. The inline payload is only loaded when
// withData is set.
func (r *Files) Get(ctx context.Context, ownerID, id string, withData bool) (*model.File, error) {
	var f model.File

	q := r.db.
		WithContext(ctx).
		Scopes(ownedBy(ownerID, id))
	if !withData {
		q = q.Omit("data")
	}

	if err := q.First(&f).Error; err != nil {
		return nil, err
	}

	return &f, nil
}

func (r *Files) Create(ctx context.Context, f *model.File) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *Files) Delete(ctx context.Context, ownerID, id string) error {
	res := r.db.
		WithContext(ctx).
		Scopes(ownedBy(ownerID, id)).
		Delete(&model.File{})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
