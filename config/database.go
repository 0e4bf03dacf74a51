package config

import (
	"context"
	"fmt"
	"time"

	"food-ordering-api/store"
	"food-ordering-api/store/gormstore"
	"food-ordering-api/store/mongostore"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenStore connects to the configured backend and returns it behind store.Store
func OpenStore(ctx context.Context, db Database) (store.Store, error) {
	if db.Driver == "mongo" {
		return mongostore.Connect(ctx, db.MongoURI, db.MongoDatabase)
	}
	gdb, err := OpenGorm(db)
	if err != nil {
		return nil, err
	}
	s, err := gormstore.New(gdb)
	if err != nil {
		if sqlDB, dbErr := gdb.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return s, nil
}

// OpenGorm opens a SQLite or PostgreSQL handle with pool settings applied
func OpenGorm(db Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch db.Driver {
	case "sqlite":
		dialector = sqlite.Open(db.DSN)
	case "postgres":
		dialector = postgres.Open(db.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", db.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		// Line items keep a snapshot, so deleting a menu item must not be
		// blocked by historical orders.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", db.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if db.Driver == "sqlite" {
		// SQLite allows one writer; a single connection also keeps :memory: databases alive.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		sqlDB.SetConnMaxIdleTime(2 * time.Minute)
	}
	return gdb, nil
}

// WithTimeout returns a context bounded for startup and tooling calls
func WithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
