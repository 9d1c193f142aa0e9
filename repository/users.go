package repository

import (
	"bitwise74/resource-api/model"
	"context"

	"gorm.io/gorm"
)

type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (r *Users) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Users) ByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := r.db.
		WithContext(ctx).
		Where("id = ?", id).
		First(&u).
		Error
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *Users) ByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := r.db.
		WithContext(ctx).
		Where("email = ?", email).
		First(&u).
		Error
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// EmailTaken reports whether another user already registered email.
// exceptID is ignored when empty.
func (r *Users) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	var n int64

	q := r.db.
		WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}

	if err := q.Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *Users) Update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.
		WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
