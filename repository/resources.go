package repository

import (
	"bitwise74/resource-api/model"
	"context"
	"database/sql"
	"maps"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResourceFilter selects and orders a page of resources. Zero values mean
// "don't filter".
type ResourceFilter struct {
	Type       string
	CategoryID string
	// A resource matches if it carries any of these tags
	TagIDs     []string
	IsFavorite *bool
	Search     string

	// Column to order by, created_at or title
	OrderBy string
	Desc    bool
	Offset  int
	Limit   int
}

type Resources struct {
	db *gorm.DB
}

func NewResources(db *gorm.DB) *Resources {
	return &Resources{db: db}
}

func hydrated(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		})
}

// Create inserts the resource and its tag associations in one transaction
func (r *Resources) Create(ctx context.Context, res *model.Resource, tagIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(res).Error; err != nil {
			return err
		}

		return insertTags(tx, res.ID, tagIDs)
	})
}

func insertTags(tx *gorm.DB, resourceID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([]model.ResourceTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, model.ResourceTag{ResourceID: resourceID, TagID: id})
	}

	return tx.Create(&rows).Error
}

// Get returns the resource with its category and tags loaded
func (r *Resources) Get(ctx context.Context, ownerID, id string) (*model.Resource, error) {
	var res model.Resource

	err := r.db.
		WithContext(ctx).
		Scopes(ownedBy(ownerID, id), hydrated).
		First(&res).
		Error
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// Find returns the bare resource row without associations
func (r *Resources) Find(ctx context.Context, ownerID, id string) (*model.Resource, error) {
	var res model.Resource

	err := r.db.
		WithContext(ctx).
		Scopes(ownedBy(ownerID, id)).
		First(&res).
		Error
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func filtered(ownerID string, f ResourceFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("resources.user_id = ?", ownerID)

		if f.Type != "" {
			db = db.Where("resources.type = ?", f.Type)
		}

		if f.CategoryID != "" {
			db = db.Where("resources.category_id = ?", f.CategoryID)
		}

		if f.IsFavorite != nil {
			db = db.Where("resources.is_favorite = ?", *f.IsFavorite)
		}

		if len(f.TagIDs) > 0 {
			sub := db.
				Session(&gorm.Session{NewDB: true}).
				Model(&model.ResourceTag{}).
				Select("resource_id").
				Where("tag_id IN ?", f.TagIDs)

			db = db.Where("resources.id IN (?)", sub)
		}

		if f.Search != "" {
			db = db.Where(`resources.search_text LIKE ? ESCAPE '\'`, containsPattern(f.Search))
		}

		return db
	}
}

// List returns one page of matching resources and the total number of
// matches. Both queries run in the same transaction.
func (r *Resources) List(ctx context.Context, ownerID string, f ResourceFilter) ([]model.Resource, int64, error) {
	var (
		rows  = []model.Resource{}
		total int64
	)

	var opts []*sql.TxOptions
	if r.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&model.Resource{}).
			Scopes(filtered(ownerID, f)).
			Count(&total).
			Error
		if err != nil {
			return err
		}

		if total == 0 {
			return nil
		}

		orderBy := f.OrderBy
		if orderBy == "" {
			orderBy = "created_at"
		}

		return tx.
			Scopes(filtered(ownerID, f), hydrated).
			Order(clause.OrderByColumn{Column: clause.Column{Table: "resources", Name: orderBy}, Desc: f.Desc}).
			Order(clause.OrderByColumn{Column: clause.Column{Table: "resources", Name: "id"}, Desc: f.Desc}).
			Offset(f.Offset).
			Limit(f.Limit).
			Find(&rows).
			Error
	}, opts...)
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// Update writes fields and, when tagIDs is non-nil, replaces the whole tag
// set. Everything happens in one transaction.
func (r *Resources) Update(ctx context.Context, ownerID, id string, fields map[string]any, tagIDs *[]string) error {
	values := maps.Clone(fields)
	if values == nil {
		values = map[string]any{}
	}
	values["updated_at"] = time.Now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := withSearchText(tx, ownerID, id, values); err != nil {
			return err
		}

		res := tx.
			Model(&model.Resource{}).
			Scopes(ownedBy(ownerID, id)).
			Updates(values)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if tagIDs == nil {
			return nil
		}

		err := tx.
			Where("resource_id = ?", id).
			Delete(&model.ResourceTag{}).
			Error
		if err != nil {
			return err
		}

		return insertTags(tx, id, *tagIDs)
	})
}

// withSearchText sets search_text in values when the title or the
// description changes. The other half is read from the stored row.
func withSearchText(tx *gorm.DB, ownerID, id string, values map[string]any) error {
	title, hasTitle := values["title"]
	description, hasDescription := values["description"]
	if !hasTitle && !hasDescription {
		return nil
	}

	var cur model.Resource

	err := tx.
		Scopes(ownedBy(ownerID, id)).
		Select("title", "description").
		First(&cur).
		Error
	if err != nil {
		return err
	}

	if hasTitle {
		cur.Title, _ = title.(string)
	}

	if hasDescription {
		switch d := description.(type) {
		case string:
			cur.Description = &d
		case *string:
			cur.Description = d
		default:
			cur.Description = nil
		}
	}

	values["search_text"] = model.SearchText(cur.Title, cur.Description)
	return nil
}

// Delete removes the resource and its tag associations
func (r *Resources) Delete(ctx context.Context, ownerID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Scopes(ownedBy(ownerID, id)).
			Select("id").
			First(&model.Resource{}).
			Error
		if err != nil {
			return err
		}

		err = tx.
			Where("resource_id = ?", id).
			Delete(&model.ResourceTag{}).
			Error
		if err != nil {
			return err
		}

		return tx.
			Scopes(ownedBy(ownerID, id)).
			Delete(&model.Resource{}).
			Error
	})
}

// ToggleFavorite flips is_favorite with a single conditional update and
// returns the new value
func (r *Resources) ToggleFavorite(ctx context.Context, ownerID, id string) (bool, error) {
	var fav bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&model.Resource{}).
			Scopes(ownedBy(ownerID, id)).
			Updates(map[string]any{
				"is_favorite": gorm.Expr("NOT is_favorite"),
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return tx.
			Model(&model.Resource{}).
			Select("is_favorite").
			Where("id = ?", id).
			Scan(&fav).
			Error
	})

	return fav, err
}
