// Package sqliterepo persists sessions in a SQLite database.
package sqliterepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jrsteele09/traveline-backoffice/session"
	_ "modernc.org/sqlite"
)

var _ session.Repo = (*SQLiteSessionRepo)(nil)

type SQLiteSessionRepo struct {
	db *sql.DB
}

func New(dbPath string) (*SQLiteSessionRepo, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqliterepo: failed to open database: %w", err)
	}
	// one writer at a time keeps SQLite away from SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteSessionRepo{db: db}, nil
}

func (r *SQLiteSessionRepo) Close() error {
	return r.db.Close()
}

func initSchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS session_kv (
			namespace   TEXT NOT NULL,
			key         TEXT NOT NULL,
			value       TEXT NOT NULL,
			PRIMARY KEY (namespace, key)
		);`,
	); err != nil {
		return fmt.Errorf("sqliterepo: failed to init 'session_kv' table schema: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) Get(ctx context.Context, namespace string, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	args := make([]any, 0, len(keys)+1)
	args = append(args, namespace)
	for _, key := range keys {
		args = append(args, key)
	}
	query := `SELECT key, value FROM session_kv WHERE namespace = ? AND key IN (` + placeholders(len(keys)) + `);`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqliterepo: failed to query session: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("sqliterepo: failed to scan session row: %w", err)
		}
		out[key] = value
	}
	return out, rows.Err()
}

func (r *SQLiteSessionRepo) Set(ctx context.Context, namespace, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session_kv (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value;`,
		namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("sqliterepo: failed to store %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteSessionRepo) Delete(ctx context.Context, namespace string, keys ...string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqliterepo: failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM session_kv WHERE namespace = ? AND key = ?;`, namespace, key); err != nil {
			return fmt.Errorf("sqliterepo: failed to delete %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqliterepo: failed to commit delete: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
