package db

import (
	"path/filepath"
	"testing"

	"bitwise74/resource-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func TestMemoryMigratesSchema(t *testing.T) {
	db, err := Memory()
	require.NoError(t, err)

	m := db.Migrator()
	for _, table := range []any{&model.User{}, &model.Category{}, &model.Tag{}, &model.Resource{}, &model.ResourceTag{}, &model.File{}} {
		assert.True(t, m.HasTable(table))
	}

	assert.True(t, m.HasIndex(&model.Tag{}, "uidx_tags_user_name"))
	assert.True(t, m.HasIndex(&model.File{}, "uidx_files_user_hash"))
	assert.False(t, m.HasColumn(&model.Category{}, "resource_count"))
}

func TestMemoryDatabasesAreIsolated(t *testing.T) {
	a, err := Memory()
	require.NoError(t, err)

	b, err := Memory()
	require.NoError(t, err)

	require.NoError(t, a.Create(&model.User{Email: "a@example.com", PasswordHash: "x", Name: "A"}).Error)

	var n int64
	require.NoError(t, b.Model(&model.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSQLiteDSNSetsBusyTimeout(t *testing.T) {
	assert.Equal(t, "database.db?_busy_timeout=5000", sqliteDSN("database.db"))
	assert.Equal(t, "file:app.db?cache=shared&_busy_timeout=5000", sqliteDSN("file:app.db?cache=shared"))
	assert.Equal(t, "app.db?_busy_timeout=100", sqliteDSN("app.db?_busy_timeout=100"))
}

func TestSQLiteFileWaitsForLocks(t *testing.T) {
	conn, err := Open(sqlite.Open(sqliteDSN(filepath.Join(t.TempDir(), "test.db"))))
	require.NoError(t, err)

	var timeout int
	require.NoError(t, conn.Raw("PRAGMA busy_timeout").Scan(&timeout).Error)
	assert.Equal(t, 5000, timeout)
}
