package repository

import (
	"bitwise74/resource-api/model"
	"context"

	"gorm.io/gorm"
)

const tagColumns = "tags.*, " +
	"(SELECT COUNT(*) FROM resource_tags WHERE resource_tags.tag_id = tags.id) AS resource_count"

type Tags struct {
	db *gorm.DB
}

func NewTags(db *gorm.DB) *Tags {
	return &Tags{db: db}
}

// List returns the owner's tags ordered by name. A non-empty search keeps
// only names containing it.
func (r *Tags) List(ctx context.Context, ownerID, search string) ([]model.Tag, error) {
	out := []model.Tag{}

	q := r.db.
		WithContext(ctx).
		Model(&model.Tag{}).
		Select(tagColumns).
		Where("tags.user_id = ?", ownerID)
	if search != "" {
		q = q.Where(`tags.name LIKE ? ESCAPE '\'`, containsPattern(search))
	}

	err := q.
		Order("tags.name ASC").
		Find(&out).
		Error

	return out, err
}

func (r *Tags) Get(ctx context.Context, ownerID, id string) (*model.Tag, error) {
	var t model.Tag

	err := r.db.
		WithContext(ctx).
		Model(&model.Tag{}).
		Select(tagColumns).
		Where("tags.id = ? AND tags.user_id = ?", id, ownerID).
		First(&t).
		Error
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *Tags) NameTaken(ctx context.Context, ownerID, name string) (bool, error) {
	var n int64

	err := r.db.
		WithContext(ctx).
		Model(&model.Tag{}).
		Where("user_id = ? AND name = ?", ownerID, name).
		Count(&n).
		Error

	return n > 0, err
}

// CountOwned returns how many of ids belong to the owner
func (r *Tags) CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error) {
	var n int64

	err := r.db.
		WithContext(ctx).
		Model(&model.Tag{}).
		Where("user_id = ? AND id IN ?", ownerID, ids).
		Count(&n).
		Error

	return n, err
}

func (r *Tags) Create(ctx context.Context, t *model.Tag) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// Delete removes the tag together with its resource associations
func (r *Tags) Delete(ctx context.Context, ownerID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Scopes(ownedBy(ownerID, id)).
			Select("id").
			First(&model.Tag{}).
			Error
		if err != nil {
			return err
		}

		err = tx.
			Where("tag_id = ?", id).
			Delete(&model.ResourceTag{}).
			Error
		if err != nil {
			return err
		}

		return tx.
			Scopes(ownedBy(ownerID, id)).
			Delete(&model.Tag{}).
			Error
	})
}
