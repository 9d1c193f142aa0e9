package repository

import (
	"bitwise74/resource-api/model"
	"context"

	"gorm.io/gorm"
)

const categoryColumns = "categories.*, " +
	"(SELECT COUNT(*) FROM resources WHERE resources.category_id = categories.id) AS resource_count"

type Categories struct {
	db *gorm.DB
}

func NewCategories(db *gorm.DB) *Categories {
	return &Categories{db: db}
}

// List returns every category of the owner ordered by name
func (r *Categories) List(ctx context.Context, ownerID string) ([]model.Category, error) {
	out := []model.Category{}

	err := r.db.
		WithContext(ctx).
		Model(&model.Category{}).
		Select(categoryColumns).
		Where("categories.user_id = ?", ownerID).
		Order("categories.name ASC").
		Find(&out).
		Error

	return out, err
}

func (r *Categories) Get(ctx context.Context, ownerID, id string) (*model.Category, error) {
	var c model.Category

	err := r.db.
		WithContext(ctx).
		Model(&model.Category{}).
		Select(categoryColumns).
		Where("categories.id = ? AND categories.user_id = ?", id, ownerID).
		First(&c).
		Error
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// NameTaken reports whether the owner has a category called name other than exceptID
func (r *Categories) NameTaken(ctx context.Context, ownerID, name, exceptID string) (bool, error) {
	var n int64

	q := r.db.
		WithContext(ctx).
		Model(&model.Category{}).
		Where("user_id = ? AND name = ?", ownerID, name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}

	if err := q.Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *Categories) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Categories) Update(ctx context.Context, ownerID, id string, fields map[string]any) error {
	res := r.db.
		WithContext(ctx).
		Model(&model.Category{}).
		Scopes(ownedBy(ownerID, id)).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the category and detaches it from every resource that
// referenced it
func (r *Categories) Delete(ctx context.Context, ownerID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&model.Resource{}).
			Where("category_id = ? AND user_id = ?", id, ownerID).
			Update("category_id", nil).
			Error
		if err != nil {
			return err
		}

		res := tx.
			Scopes(ownedBy(ownerID, id)).
			Delete(&model.Category{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})
}
