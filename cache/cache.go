/*
Package cache stores encoded conversion results in a SQLite database so
repeated conversions of the same input with the same target settings skip
decoding, resizing and quantization.
*/
package cache

import (
	"crypto/sha1"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB is a conversion cache
type DB struct {
	db *sql.DB
}

// Open opens or creates the cache database in file
func Open(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, profile TEXT NOT NULL, palette BLOB NOT NULL, pixels BLOB NOT NULL, UNIQUE(sha1, profile))"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the database
func (db *DB) Close() error {
	return db.db.Close()
}

// Digest returns the key used for the input data b
func Digest(b []byte) string {
	return fmt.Sprintf("%X", sha1.Sum(b))
}

// Find returns the stored palette and pixel files for the input digest
// and profile fingerprint. ok is false if nothing is stored.
func (db *DB) Find(digest, profile string) (palette, pixels []byte, ok bool, err error) {
	switch err := db.db.QueryRow("SELECT palette, pixels FROM conversion WHERE sha1 = ? AND profile = ?", digest, profile).Scan(&palette, &pixels); err {
	case sql.ErrNoRows:
		return nil, nil, false, nil
	case nil:
		return palette, pixels, true, nil
	default:
		return nil, nil, false, err
	}
}

// Store saves the palette and pixel files, replacing any previous entry
func (db *DB) Store(digest, profile string, palette, pixels []byte) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO conversion (sha1, profile, palette, pixels) VALUES (?, ?, ?, ?)", digest, profile, palette, pixels); err != nil {
		return err
	}
	return nil
}

// Length returns the number of stored conversions
func (db *DB) Length() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM conversion").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
