// Package service holds the business rules of the API. Every method that
// touches user data takes the owning user's id right after the context and
// never reads it from anywhere else.
package service

import (
	"bitwise74/resource-api/errs"
	"bitwise74/resource-api/model"
	"bitwise74/resource-api/repository"
	"bitwise74/resource-api/security"
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

type CategoryStore interface {
	List(ctx context.Context, ownerID string) ([]model.Category, error)
	Get(ctx context.Context, ownerID, id string) (*model.Category, error)
	NameTaken(ctx context.Context, ownerID, name, exceptID string) (bool, error)
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, ownerID, id string, fields map[string]any) error
	Delete(ctx context.Context, ownerID, id string) error
}

type TagStore interface {
	List(ctx context.Context, ownerID, search string) ([]model.Tag, error)
	Get(ctx context.Context, ownerID, id string) (*model.Tag, error)
	NameTaken(ctx context.Context, ownerID, name string) (bool, error)
	CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error)
	Create(ctx context.Context, t *model.Tag) error
	Delete(ctx context.Context, ownerID, id string) error
}

type ResourceStore interface {
	Create(ctx context.Context, res *model.Resource, tagIDs []string) error
	Get(ctx context.Context, ownerID, id string) (*model.Resource, error)
	Find(ctx context.Context, ownerID, id string) (*model.Resource, error)
	List(ctx context.Context, ownerID string, f repository.ResourceFilter) ([]model.Resource, int64, error)
	Update(ctx context.Context, ownerID, id string, fields map[string]any, tagIDs *[]string) error
	Delete(ctx context.Context, ownerID, id string) error
	ToggleFavorite(ctx context.Context, ownerID, id string) (bool, error)
}

type FileStore interface {
	ByHash(ctx context.Context, ownerID, hash string) (*model.File, error)
	Get(ctx context.Context, ownerID, id string, withData bool) (*model.File, error)
	Create(ctx context.Context, f *model.File) error
	Delete(ctx context.Context, ownerID, id string) error
}

// BlobStore keeps file contents outside of the database
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type Hasher interface {
	GenerateFromPassword(p string) (string, error)
	VerifyPasswd(p, e string) (bool, error)
}

type TokenManager interface {
	Issue(userID, email string) (string, time.Time, error)
	Parse(s string) (*security.Claims, error)
}

var validate = validator.New()

// notFoundOr turns a missing row into a NotFound error and passes anything
// else through
func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errs.NotFound(format, args...)
	}

	return err
}

func checkUUID(field, id string) error {
	if uuid.Validate(id) != nil {
		return errs.Validation(field, "Invalid UUID")
	}

	return nil
}
