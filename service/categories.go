package service

import (
	"bitwise74/resource-api/errs"
	"bitwise74/resource-api/model"
	"bitwise74/resource-api/repository"
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

const maxCategoryName = 50

type CreateCategory struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type UpdateCategory struct {
	Name  *string          `json:"name"`
	Color Optional[string] `json:"color"`
}

type Categories struct {
	categories CategoryStore
}

func NewCategories(categories CategoryStore) *Categories {
	return &Categories{categories: categories}
}

func checkCategoryName(name string) error {
	if n := utf8.RuneCountInString(name); n < 1 || n > maxCategoryName {
		return errs.Validation("name", "Name must be between 1 and 50 characters")
	}

	return nil
}

func checkColor(color string) error {
	if validate.Var(color, "len=7,hexcolor") != nil {
		return errs.Validation("color", "Color must be a hex color like #1a2b3c")
	}

	return nil
}

func (s *Categories) List(ctx context.Context, ownerID string) ([]model.Category, error) {
	out, err := s.categories.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories, %w", err)
	}

	return out, nil
}

func (s *Categories) Get(ctx context.Context, ownerID, id string) (*model.Category, error) {
	c, err := s.categories.Get(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOr(err, "Category with ID %s not found", id)
	}

	return c, nil
}

func (s *Categories) Create(ctx context.Context, ownerID string, in CreateCategory) (*model.Category, error) {
	if err := checkCategoryName(in.Name); err != nil {
		return nil, err
	}

	if in.Color != nil {
		if err := checkColor(*in.Color); err != nil {
			return nil, err
		}
	}

	taken, err := s.categories.NameTaken(ctx, ownerID, in.Name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check category name, %w", err)
	}

	if taken {
		return nil, errs.Conflict("A category with this name already exists")
	}

	c := &model.Category{
		UserID: ownerID,
		Name:   in.Name,
		Color:  in.Color,
	}

	if err := s.categories.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errs.Conflict("A category with this name already exists")
		}

		return nil, fmt.Errorf("failed to create category, %w", err)
	}

	return c, nil
}

// Update renames and/or recolors a category. A null color clears it.
func (s *Categories) Update(ctx context.Context, ownerID, id string, in UpdateCategory) (*model.Category, error) {
	existing, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}

	if in.Name != nil && *in.Name != existing.Name {
		if err := checkCategoryName(*in.Name); err != nil {
			return nil, err
		}

		taken, err := s.categories.NameTaken(ctx, ownerID, *in.Name, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check category name, %w", err)
		}

		if taken {
			return nil, errs.Conflict("A category with this name already exists")
		}

		fields["name"] = *in.Name
	}

	if in.Color.Set {
		if in.Color.Value == nil {
			fields["color"] = nil
		} else {
			if err := checkColor(*in.Color.Value); err != nil {
				return nil, err
			}

			fields["color"] = *in.Color.Value
		}
	}

	if len(fields) == 0 {
		return existing, nil
	}

	if err := s.categories.Update(ctx, ownerID, id, fields); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errs.Conflict("A category with this name already exists")
		}

		return nil, notFoundOr(err, "Category with ID %s not found", id)
	}

	return s.Get(ctx, ownerID, id)
}

// Delete removes the category. Resources that used it are kept and lose
// their category.
func (s *Categories) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.categories.Delete(ctx, ownerID, id); err != nil {
		return notFoundOr(err, "Category with ID %s not found", id)
	}

	return nil
}
