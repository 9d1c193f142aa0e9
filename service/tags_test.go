package service

import (
	"context"
	"strings"
	"testing"

	"bitwise74/resource-api/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagNameNormalization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com")
	b := f.register(t, "b@example.com")

	tag, err := f.tags.Create(ctx, a, CreateTag{Name: "  GoLang "})
	require.NoError(t, err)
	assert.Equal(t, "golang", tag.Name)

	_, err = f.tags.Create(ctx, a, CreateTag{Name: "golang"})
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = f.tags.Create(ctx, a, CreateTag{Name: "GOLANG"})
	assert.ErrorIs(t, err, errs.ErrConflict)

	other, err := f.tags.Create(ctx, b, CreateTag{Name: "GoLang"})
	require.NoError(t, err)
	assert.Equal(t, "golang", other.Name)
	assert.NotEqual(t, tag.ID, other.ID)
}

func TestTagNameLength(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com")

	_, err := f.tags.Create(ctx, a, CreateTag{Name: "   "})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.tags.Create(ctx, a, CreateTag{Name: strings.Repeat("x", 31)})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestTagListAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com")
	b := f.register(t, "b@example.com")

	golang, err := f.tags.Create(ctx, a, CreateTag{Name: "golang"})
	require.NoError(t, err)
	_, err = f.tags.Create(ctx, a, CreateTag{Name: "rust"})
	require.NoError(t, err)

	res := f.note(t, a, "Generics", golang.ID)

	found, err := f.tags.List(ctx, a, " GO ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "golang", found[0].Name)
	assert.EqualValues(t, 1, found[0].ResourceCount)

	assert.ErrorIs(t, f.tags.Delete(ctx, b, golang.ID), errs.ErrNotFound)
	require.NoError(t, f.tags.Delete(ctx, a, golang.ID))

	got, err := f.resources.Get(ctx, a, res.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	_, err = f.tags.Get(ctx, a, golang.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
