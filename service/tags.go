package service

import (
	"bitwise74/resource-api/errs"
	"bitwise74/resource-api/model"
	"bitwise74/resource-api/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxTagName = 30

type CreateTag struct {
	Name string `json:"name"`
}

type Tags struct {
	tags TagStore
}

func NewTags(tags TagStore) *Tags {
	return &Tags{tags: tags}
}

// NormalizeTagName is the form tag names are stored and compared in
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *Tags) List(ctx context.Context, ownerID, search string) ([]model.Tag, error) {
	out, err := s.tags.List(ctx, ownerID, NormalizeTagName(search))
	if err != nil {
		return nil, fmt.Errorf("failed to list tags, %w", err)
	}

	return out, nil
}

func (s *Tags) Get(ctx context.Context, ownerID, id string) (*model.Tag, error) {
	t, err := s.tags.Get(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOr(err, "Tag with ID %s not found", id)
	}

	return t, nil
}

func (s *Tags) Create(ctx context.Context, ownerID string, in CreateTag) (*model.Tag, error) {
	name := NormalizeTagName(in.Name)
	if n := utf8.RuneCountInString(name); n < 1 || n > maxTagName {
		return nil, errs.Validation("name", "Name must be between 1 and 30 characters")
	}

	taken, err := s.tags.NameTaken(ctx, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check tag name, %w", err)
	}

	if taken {
		return nil, errs.Conflict("A tag with this name already exists")
	}

	t := &model.Tag{
		UserID: ownerID,
		Name:   name,
	}

	if err := s.tags.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errs.Conflict("A tag with this name already exists")
		}

		return nil, fmt.Errorf("failed to create tag, %w", err)
	}

	return t, nil
}

// Delete removes the tag from every resource and then the tag itself
func (s *Tags) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.tags.Delete(ctx, ownerID, id); err != nil {
		return notFoundOr(err, "Tag with ID %s not found", id)
	}

	return nil
}
