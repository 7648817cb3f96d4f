package archive

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/postgres/*.sql
var embedMigrations embed.FS

// DatabaseConfig selects the archive database.
//
// For sqlite an empty Name opens a shared in-memory database. For postgres
// URL is a libpq connection string or URI.
type DatabaseConfig struct {
	Driver string `env:"EIP712_DATABASE_DRIVER" env-default:"sqlite" validate:"oneof=sqlite postgres"`
	Name   string `env:"EIP712_DATABASE_NAME" env-default:""`
	URL    string `env:"EIP712_DATABASE_URL" env-default:"" validate:"required_if=Driver postgres"`
}

// Connect opens the database and brings its schema up to date.
func Connect(cnf DatabaseConfig) (*gorm.DB, error) {
	switch cnf.Driver {
	case "sqlite", "":
		return connectToSqlite(cnf)
	case "postgres":
		return connectToPostgresql(cnf)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cnf.Driver)
	}
}

func connectToSqlite(cnf DatabaseConfig) (*gorm.DB, error) {
	dsn := "file::memory:?cache=shared"
	if cnf.Name != "" {
		dsn = fmt.Sprintf("file:%s?cache=shared", cnf.Name)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
	}
	return db, nil
}

func connectToPostgresql(cnf DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cnf.URL), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	if err := goose.Up(sqlDB, "migrations/postgres"); err != nil {
		return nil, fmt.Errorf("failed to apply postgres migrations: %w", err)
	}
	return db, nil
}
