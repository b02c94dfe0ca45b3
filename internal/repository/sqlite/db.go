package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// memoryDSN names a private in-memory database. It lives exactly as long as
// the single pooled connection, which is never recycled.
const memoryDSN = ":memory:"

// Open opens a private in-memory sqlite database for the calling process.
func Open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// every new connection would see an empty database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return db, nil
}
