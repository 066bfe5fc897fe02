package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetValue returns the value stored under key and whether it exists.
func GetValue(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get value %q: %w", key, err)
	}
	return value, true, nil
}

// SetValue stores value under key, replacing any previous value.
func SetValue(db *sql.DB, key, value string) error {
	query := `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')
	`
	if _, err := db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set value %q: %w", key, err)
	}
	return nil
}

// DeleteValue removes key. Removing a missing key is not an error.
func DeleteValue(db *sql.DB, key string) error {
	if _, err := db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete value %q: %w", key, err)
	}
	return nil
}

// ListKeys returns every key starting with prefix, sorted.
func ListKeys(db *sql.DB, prefix string) ([]string, error) {
	rows, err := db.Query(`SELECT key FROM kv WHERE substr(key, 1, length(?)) = ? ORDER BY key`, prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keys: %w", err)
	}
	return keys, nil
}

// KV adapts the kv table to the session's storage interface.
type KV struct {
	db *sql.DB
}

func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

func (kv *KV) Get(key string) (string, bool, error) { return GetValue(kv.db, key) }
func (kv *KV) Set(key, value string) error         { return SetValue(kv.db, key, value) }
func (kv *KV) Delete(key string) error             { return DeleteValue(kv.db, key) }
