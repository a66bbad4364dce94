package database

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationFS embed.FS

const (
	sqliteDir   = "sqlite"
	postgresDir = "postgres"
)

// RunMigrations applies all up migrations to the sqlite file at dbPath.
// migrationsPath is the root holding sqlite/ and postgres/; empty uses the
// migrations compiled into the binary.
func RunMigrations(dbPath, migrationsPath string) error {
	if err := ensureDir(dbPath); err != nil {
		return err
	}
	dsn := fmt.Sprintf("sqlite3://%s?_foreign_keys=on", dbPath)
	return up(migrationsPath, sqliteDir, func(src string, drv source.Driver) (*migrate.Migrate, error) {
		if drv != nil {
			return migrate.NewWithSourceInstance("iofs", drv, dsn)
		}
		return migrate.New(src, dsn)
	})
}

// RunPostgresMigrations applies the postgres migrations to the database at url
// (postgres:// or postgresql:// DSN).
func RunPostgresMigrations(url, migrationsPath string) error {
	dsn := pgxURL(url)
	return up(migrationsPath, postgresDir, func(src string, drv source.Driver) (*migrate.Migrate, error) {
		if drv != nil {
			return migrate.NewWithSourceInstance("iofs", drv, dsn)
		}
		return migrate.New(src, dsn)
	})
}

func up(root, dialect string, open func(src string, drv source.Driver) (*migrate.Migrate, error)) error {
	var (
		m   *migrate.Migrate
		err error
	)
	if root == "" {
		sub, subErr := fs.Sub(migrationFS, "migrations/"+dialect)
		if subErr != nil {
			return subErr
		}
		drv, srcErr := iofs.New(sub, ".")
		if srcErr != nil {
			return srcErr
		}
		m, err = open("", drv)
	} else {
		m, err = open(fmt.Sprintf("file://%s/%s", root, dialect), nil)
	}
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func pgxURL(url string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(url, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return url
}
