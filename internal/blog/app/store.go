package app

import (
	"fmt"
	"net/url"

	"github.com/aussiebroadwan/inkwell/internal/blog/store"
	"github.com/aussiebroadwan/inkwell/internal/blog/store/drivers/postgres"
	"github.com/aussiebroadwan/inkwell/internal/blog/store/drivers/sqlite"
)

// OpenStore connects to the configured database. The schema is left alone;
// call ApplyMigrations on the result.
func OpenStore(cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case DriverSQLite:
		db, err := sqlite.NewStore(sqliteDSN(cfg.DatabaseFile))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, nil
	case DriverPostgres:
		db, err := postgres.NewStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

// sqliteDSN turns a file path into a modernc DSN with WAL, a busy timeout
// and foreign keys on every connection.
func sqliteDSN(file string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	return "file:" + file + "?" + q.Encode()
}
