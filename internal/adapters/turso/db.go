package turso

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

// Open connects to a libsql database. url is either a local file URL
// (file:/path/to/carbonkit.db) or a remote Turso URL, in which case
// authToken must be set.
func Open(url, authToken string) (*sql.DB, error) {
	connStr := url
	if authToken != "" {
		connStr = url + "?authToken=" + authToken
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Turso's Hrana protocol aggressively closes idle streams; keeping no
	// idle connections avoids "stream not found" errors on stale handles.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
