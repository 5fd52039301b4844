// Package db implements the persistence layer of the directory on top of GORM.
// Postgres is the production dialect; sqlite serves tests and single-node setups.
package db

import (
	"context"
	"fmt"
	"strings"

	dbmodels "github.com/gartstein/partners/internal/directory/db/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the sqlite database file.
	Path string
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case "", "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(c.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

func NewRepository(cfg *Config) (*Repository, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return &Repository{db: db}, nil
}

// NewFromDB wraps an already opened connection.
func NewFromDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates every table of the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(dbmodels.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Ping(ctx context.Context) error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Exec runs a raw statement, e.g. to reset tables between integration tests.
func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	return r.db.WithContext(ctx).Exec(query, params...).Error
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// likePattern builds a case-insensitive substring pattern with LIKE wildcards escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
