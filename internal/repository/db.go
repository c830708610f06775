package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

//go:embed migrations
var migrations embed.FS

type dialect struct {
	goose goose.Dialect
	dir   string
}

var dialects = map[string]dialect{
	DriverMySQL:    {goose: goose.DialectMySQL, dir: "migrations/mysql"},
	DriverPostgres: {goose: goose.DialectPostgres, dir: "migrations/postgres"},
	DriverSQLite:   {goose: goose.DialectSQLite3, dir: "migrations/sqlite"},
}

// DB is a connection pool that knows which SQL dialect it speaks.
type DB struct {
	*sqlx.DB
	driver string
}

// NewDB opens and pings a connection pool for driver.
func NewDB(ctx context.Context, driver, dsn string) (*DB, error) {
	if _, ok := dialects[driver]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	if driver == DriverMySQL {
		var err error
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite serializes writers, and a shared in-memory database lives only
		// as long as one connection stays open.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{DB: db, driver: driver}, nil
}

// mysqlDSN turns on parseTime, which scanning DATETIME columns into
// time.Time requires.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parsing mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Driver returns the database/sql driver name.
func (db *DB) Driver() string {
	return db.driver
}

// Migrate applies all pending migrations and returns how many ran.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	d := dialects[db.driver]

	fsys, err := fs.Sub(migrations, d.dir)
	if err != nil {
		return 0, err
	}

	provider, err := goose.NewProvider(d.goose, db.DB.DB, fsys)
	if err != nil {
		return 0, fmt.Errorf("creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("applying migrations: %w", err)
	}
	return len(results), nil
}
