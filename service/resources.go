package service

import (
	"bitwise74/resource-api/content"
	"bitwise74/resource-api/errs"
	"bitwise74/resource-api/model"
	"bitwise74/resource-api/repository"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"title":     "title",
}

type CreateResource struct {
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Type        string         `json:"type"`
	Content     map[string]any `json:"content"`
	CategoryID  *string        `json:"categoryId"`
	TagIDs      []string       `json:"tagIds"`
}

// UpdateResource is a partial update. The type of a resource can't change.
type UpdateResource struct {
	Title       *string          `json:"title"`
	Description Optional[string] `json:"description"`
	Content     map[string]any   `json:"content"`
	CategoryID  Optional[string] `json:"categoryId"`
	// Replaces the whole set, an empty slice removes every tag
	TagIDs     *[]string `json:"tagIds"`
	IsFavorite *bool     `json:"isFavorite"`
}

// ResourceQuery carries the list parameters as they arrive from the client
type ResourceQuery struct {
	Type       string
	CategoryID string
	// Comma separated, a resource matches if it has any of them
	TagIDs     string
	IsFavorite *bool
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

type CategoryRef struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ResourceResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Type        content.Type   `json:"type"`
	Content     map[string]any `json:"content"`
	IsFavorite  bool           `json:"isFavorite"`
	Category    *CategoryRef   `json:"category"`
	Tags        []TagRef       `json:"tags"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type ResourcePage struct {
	Data       []ResourceResponse `json:"data"`
	Pagination Pagination         `json:"pagination"`
}

type FavoriteState struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"isFavorite"`
}

type Resources struct {
	resources  ResourceStore
	categories CategoryStore
	tags       TagStore
	files      FileStore
}

func NewResources(resources ResourceStore, categories CategoryStore, tags TagStore, files FileStore) *Resources {
	return &Resources{
		resources:  resources,
		categories: categories,
		tags:       tags,
		files:      files,
	}
}

func newResourceResponse(r *model.Resource) ResourceResponse {
	out := ResourceResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Type:        content.Type(r.Type),
		Content:     map[string]any(r.Content),
		IsFavorite:  r.IsFavorite,
		Tags:        make([]TagRef, 0, len(r.Tags)),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}

	if out.Content == nil {
		out.Content = map[string]any{}
	}

	if r.Category != nil {
		out.Category = &CategoryRef{
			ID:    r.Category.ID,
			Name:  r.Category.Name,
			Color: r.Category.Color,
		}
	}

	for _, t := range r.Tags {
		out.Tags = append(out.Tags, TagRef{ID: t.ID, Name: t.Name})
	}

	return out
}

func checkTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errs.Validation("title", "Title is required")
	}

	return nil
}

// checkContent validates payload for t and resolves document file references
func (s *Resources) checkContent(ctx context.Context, ownerID string, t content.Type, payload map[string]any) (content.Content, error) {
	c, err := content.Validate(t, payload)
	if err != nil {
		var verr *content.ValidationError
		if errors.As(err, &verr) {
			return nil, &errs.Error{
				Kind:    errs.KindBadRequest,
				Message: verr.Error(),
				Fields:  []errs.FieldError{{Field: "content." + verr.Field, Message: verr.Field + " " + verr.Constraint}},
			}
		}

		if errors.Is(err, content.ErrUnknownType) {
			return nil, errs.Validation("type", err.Error())
		}

		return nil, err
	}

	if doc, ok := c.(*content.Document); ok && doc.FileID != "" {
		f, err := s.files.Get(ctx, ownerID, doc.FileID, false)
		if err != nil {
			return nil, notFoundOr(err, "File with ID %s not found", doc.FileID)
		}

		if doc.FileName == "" {
			doc.FileName = f.Filename
		}
	}

	return c, nil
}

func (s *Resources) checkCategory(ctx context.Context, ownerID, id string) error {
	if err := checkUUID("categoryId", id); err != nil {
		return err
	}

	if _, err := s.categories.Get(ctx, ownerID, id); err != nil {
		return notFoundOr(err, "Category with ID %s not found", id)
	}

	return nil
}

// checkTags dedupes ids and makes sure every one of them belongs to the owner
func (s *Resources) checkTags(ctx context.Context, ownerID string, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		if err := checkUUID("tagIds", id); err != nil {
			return nil, err
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	if len(out) == 0 {
		return out, nil
	}

	n, err := s.tags.CountOwned(ctx, ownerID, out)
	if err != nil {
		return nil, fmt.Errorf("failed to count tags, %w", err)
	}

	if n != int64(len(out)) {
		return nil, errs.NotFound("One or more tags not found")
	}

	return out, nil
}

func (s *Resources) Create(ctx context.Context, ownerID string, in CreateResource) (*ResourceResponse, error) {
	if err := checkTitle(in.Title); err != nil {
		return nil, err
	}

	t, ok := content.ParseType(in.Type)
	if !ok {
		return nil, errs.Validation("type", "Type must be one of link, document, contact, event, note")
	}

	if in.Content == nil {
		return nil, errs.Validation("content", "Content is required")
	}

	c, err := s.checkContent(ctx, ownerID, t, in.Content)
	if err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, ownerID, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	tagIDs, err := s.checkTags(ctx, ownerID, in.TagIDs)
	if err != nil {
		return nil, err
	}

	res := &model.Resource{
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		Type:        string(t),
		Content:     datatypes.JSONMap(c.Map()),
		CategoryID:  in.CategoryID,
	}

	if err := s.resources.Create(ctx, res, tagIDs); err != nil {
		return nil, fmt.Errorf("failed to create resource, %w", err)
	}

	return s.Get(ctx, ownerID, res.ID)
}

// filter validates q and turns it into a repository filter
func filter(q ResourceQuery) (repository.ResourceFilter, int, int, error) {
	var f repository.ResourceFilter

	if q.Type != "" {
		t, ok := content.ParseType(q.Type)
		if !ok {
			return f, 0, 0, errs.Validation("type", "Type must be one of link, document, contact, event, note")
		}

		f.Type = string(t)
	}

	if q.CategoryID != "" {
		if err := checkUUID("categoryId", q.CategoryID); err != nil {
			return f, 0, 0, err
		}

		f.CategoryID = q.CategoryID
	}

	for id := range strings.SplitSeq(q.TagIDs, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		if err := checkUUID("tagIds", id); err != nil {
			return f, 0, 0, err
		}

		f.TagIDs = append(f.TagIDs, id)
	}

	f.IsFavorite = q.IsFavorite
	f.Search = strings.TrimSpace(q.Search)

	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}

	col, ok := sortColumns[q.SortBy]
	if !ok {
		return f, 0, 0, errs.Validation("sortBy", "Sort by must be one of createdAt, title")
	}

	f.OrderBy = col

	switch q.SortOrder {
	case "", "desc":
		f.Desc = true
	case "asc":
		f.Desc = false
	default:
		return f, 0, 0, errs.Validation("sortOrder", "Sort order must be one of asc, desc")
	}

	page, limit := q.Page, q.Limit
	switch {
	case page < 0:
		return f, 0, 0, errs.Validation("page", "Page must be at least 1")
	case page == 0:
		page = defaultPage
	}

	switch {
	case limit < 0 || limit > maxLimit:
		return f, 0, 0, errs.Validation("limit", "Limit must be between 1 and 100")
	case limit == 0:
		limit = defaultLimit
	}

	if page-1 > math.MaxInt/limit {
		return f, 0, 0, errs.Validation("page", "Page is out of range")
	}

	f.Offset = (page - 1) * limit
	f.Limit = limit

	return f, page, limit, nil
}

func (s *Resources) List(ctx context.Context, ownerID string, q ResourceQuery) (*ResourcePage, error) {
	f, page, limit, err := filter(q)
	if err != nil {
		return nil, err
	}

	rows, total, err := s.resources.List(ctx, ownerID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources, %w", err)
	}

	out := &ResourcePage{
		Data: make([]ResourceResponse, 0, len(rows)),
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}

	for i := range rows {
		out.Data = append(out.Data, newResourceResponse(&rows[i]))
	}

	return out, nil
}

func (s *Resources) Get(ctx context.Context, ownerID, id string) (*ResourceResponse, error) {
	res, err := s.resources.Get(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOr(err, "Resource with ID %s not found", id)
	}

	out := newResourceResponse(res)
	return &out, nil
}

// Update applies a partial update. Content is checked against the stored
// type. Every write happens in one transaction, so either all fields change
// or none do.
func (s *Resources) Update(ctx context.Context, ownerID, id string, in UpdateResource) (*ResourceResponse, error) {
	existing, err := s.resources.Find(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOr(err, "Resource with ID %s not found", id)
	}

	fields := map[string]any{}

	if in.Title != nil {
		if err := checkTitle(*in.Title); err != nil {
			return nil, err
		}

		fields["title"] = *in.Title
	}

	if in.Description.Set {
		if in.Description.Value == nil {
			fields["description"] = nil
		} else {
			fields["description"] = *in.Description.Value
		}
	}

	if in.Content != nil {
		c, err := s.checkContent(ctx, ownerID, content.Type(existing.Type), in.Content)
		if err != nil {
			return nil, err
		}

		fields["content"] = datatypes.JSONMap(c.Map())
	}

	if in.CategoryID.Set {
		if in.CategoryID.Value == nil {
			fields["category_id"] = nil
		} else {
			if err := s.checkCategory(ctx, ownerID, *in.CategoryID.Value); err != nil {
				return nil, err
			}

			fields["category_id"] = *in.CategoryID.Value
		}
	}

	var tagIDs *[]string
	if in.TagIDs != nil {
		ids, err := s.checkTags(ctx, ownerID, *in.TagIDs)
		if err != nil {
			return nil, err
		}

		tagIDs = &ids
	}

	if in.IsFavorite != nil {
		fields["is_favorite"] = *in.IsFavorite
	}

	if err := s.resources.Update(ctx, ownerID, id, fields, tagIDs); err != nil {
		return nil, notFoundOr(err, "Resource with ID %s not found", id)
	}

	return s.Get(ctx, ownerID, id)
}

func (s *Resources) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.resources.Delete(ctx, ownerID, id); err != nil {
		return notFoundOr(err, "Resource with ID %s not found", id)
	}

	return nil
}

// ToggleFavorite flips the favorite flag in a single conditional write
func (s *Resources) ToggleFavorite(ctx context.Context, ownerID, id string) (*FavoriteState, error) {
	fav, err := s.resources.ToggleFavorite(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOr(err, "Resource with ID %s not found", id)
	}

	return &FavoriteState{ID: id, IsFavorite: fav}, nil
}
