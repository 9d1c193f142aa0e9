package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"bitwise74/resource-api/db"
	"bitwise74/resource-api/repository"
	"bitwise74/resource-api/security"
	"bitwise74/resource-api/storage"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	auth       *Auth
	resources  *Resources
	categories *Categories
	tags       *Tags
	files      *Files
}

func cheapHasher() *security.Argon2id {
	a := security.NewArgon2id()
	a.Memory = 1024
	a.Iterations = 1

	return a
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.Memory()
	require.NoError(t, err)

	users := repository.NewUsers(conn)
	categories := repository.NewCategories(conn)
	tags := repository.NewTags(conn)
	resources := repository.NewResources(conn)
	files := repository.NewFiles(conn)

	return &fixture{
		auth:       NewAuth(users, cheapHasher(), security.NewTokens("test-secret", time.Hour)),
		resources:  NewResources(resources, categories, tags, files),
		categories: NewCategories(categories),
		tags:       NewTags(tags),
		files:      NewFiles(files, nil, 1<<10, nil),
	}
}

// register creates a user and returns its id
func (f *fixture) register(t *testing.T, email string) string {
	t.Helper()

	ctx := context.Background()

	tok, err := f.auth.Register(ctx, Registration{Email: email, Password: "secret1", Name: "Tester"})
	require.NoError(t, err)

	id, err := f.auth.Authenticate(ctx, tok.AccessToken)
	require.NoError(t, err)

	return id
}

func (f *fixture) note(t *testing.T, ownerID, title string, tagIDs ...string) *ResourceResponse {
	t.Helper()

	res, err := f.resources.Create(context.Background(), ownerID, CreateResource{
		Title:   title,
		Type:    "note",
		Content: map[string]any{"content": title},
		TagIDs:  tagIDs,
	})
	require.NoError(t, err)

	return res
}

// memBlobs is an in-memory BlobStore
type memBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: map[string][]byte{}}
}

func (m *memBlobs) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *memBlobs) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}

	return b, nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	return nil
}
