// Package db opens the gorm connection and migrates the schema
package db

import (
	"bitwise74/resource-api/model"
	"bitwise74/resource-api/util"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the database selected by db.type
func New() (*gorm.DB, error) {
	switch viper.GetString("db.type") {
	case "postgres":
		return Open(postgres.Open(viper.GetString("db.dsn")))
	case "memory":
		return Memory()
	}

	path := viper.GetString("db.path")

	// If running in a docker container don't allow the sqlite file to be created.
	// The host should instead mount it using volumes
	if util.IsRunningInDocker() {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to /app/%s", path)
		}
	}

	return Open(sqlite.Open(sqliteDSN(path)))
}

// sqliteDSN makes writers wait for the lock instead of failing right away
// with "database is locked"
func sqliteDSN(path string) string {
	if strings.Contains(path, "_busy_timeout") {
		return path
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	return path + sep + "_busy_timeout=5000"
}

// Memory opens a private in-memory SQLite database. Everything is lost once
// the connection closes.
func Memory() (*gorm.DB, error) {
	db, err := connect(sqlite.Open("file::memory:"))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle, %w", err)
	}

	// Every new connection would see an empty database
	sqlDB.SetMaxOpenConns(1)

	return db, migrate(db)
}

// Open connects using the given dialector and migrates every table
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := connect(dialector)
	if err != nil {
		return nil, err
	}

	return db, migrate(db)
}

func connect(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database, %w", dialector.Name(), err)
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	err := db.SetupJoinTable(&model.Resource{}, "Tags", &model.ResourceTag{})
	if err != nil {
		return fmt.Errorf("failed to setup join table, %w", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Tag{},
		&model.Resource{},
		&model.ResourceTag{},
		&model.File{},
	)
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return nil
}
