package settings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS custom_options (
	record TEXT NOT NULL,
	key    TEXT NOT NULL,
	kind   TEXT NOT NULL,
	value  TEXT NOT NULL,
	PRIMARY KEY (record, key)
);`

// SQLiteStore keeps records as typed rows in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure settings schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Get(record string) (Record, error) {
	rows, err := s.db.Query(`SELECT key, kind, value FROM custom_options WHERE record = ?`, record)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	rec := Record{}
	found := false
	for rows.Next() {
		var key, kind, value string
		if err := rows.Scan(&key, &kind, &value); err != nil {
			return nil, err
		}
		found = true
		// Unparsable rows are dropped individually; the rest of the record stays usable.
		switch kind {
		case "string":
			rec.PutString(key, value)
		case "int":
			if n, err := strconv.Atoi(value); err == nil {
				rec.PutInt(key, n)
			}
		case "bool":
			if b, err := strconv.ParseBool(value); err == nil {
				rec.PutBool(key, b)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

func (s *SQLiteStore) Put(record string, values Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM custom_options WHERE record = ?`, record); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	for _, key := range values.Keys() {
		kind, value, err := encodeValue(values[key])
		if err != nil {
			return fmt.Errorf("settings key %s: %w", key, err)
		}
		if _, err := tx.Exec(`INSERT INTO custom_options(record, key, kind, value) VALUES(?, ?, ?, ?)`, record, key, kind, value); err != nil {
			return fmt.Errorf("insert settings: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Erase(record string) error {
	_, err := s.db.Exec(`DELETE FROM custom_options WHERE record = ?`, record)
	return err
}

func encodeValue(v any) (string, string, error) {
	switch x := v.(type) {
	case string:
		return "string", x, nil
	case int:
		return "int", strconv.Itoa(x), nil
	case bool:
		return "bool", strconv.FormatBool(x), nil
	default:
		return "", "", fmt.Errorf("unsupported value type %T", v)
	}
}
