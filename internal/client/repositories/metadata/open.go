package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/jobhub/internal/client/migrations"
	"github.com/dmitrijs2005/jobhub/internal/dbx"
	"github.com/dmitrijs2005/jobhub/internal/filex"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // pure-Go SQLite driver
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// DialectFor picks the SQL dialect for a DSN. postgres:// and postgresql://
// URLs select postgres; everything else is treated as a SQLite path or URI.
func DialectFor(dsn string) dbx.Dialect {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return dbx.DialectPostgres
	}
	return dbx.DialectSQLite
}

// RunMigrations applies the embedded migrations for dialect. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, string(dialect))
}

// Open connects to dsn, applies migrations and returns the handle together
// with its dialect.
func Open(ctx context.Context, dsn string) (*sql.DB, dbx.Dialect, error) {
	dialect := DialectFor(dsn)

	if dialect == dbx.DialectSQLite {
		if path := filex.DSNPath(dsn); path != "" {
			if err := filex.EnsureParentDir(path); err != nil {
				return nil, "", err
			}
		}
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, "", err
	}

	if dialect == dbx.DialectSQLite {
		// a single connection keeps ":memory:" databases coherent
		db.SetMaxOpenConns(1)
	}

	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to migrate metadata store: %w", err)
	}
	return db, dialect, nil
}
