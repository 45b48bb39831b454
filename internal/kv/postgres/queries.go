package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/groblegark/knotes/internal/kv"
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryGet(ctx context.Context, db executor, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

func querySet(ctx context.Context, db executor, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func queryDelete(ctx context.Context, db executor, key string) error {
	// Deleting an absent key is not an error.
	_, err := db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// queryDeleteMany deletes each key independently so a failure on one key
// cannot corrupt the rest of the batch.
func queryDeleteMany(ctx context.Context, db executor, keys []string) error {
	var errs []error
	for _, key := range keys {
		if err := queryDelete(ctx, db, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func queryScanPrefix(ctx context.Context, db executor, prefix string) ([][]byte, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT value FROM kv_store WHERE key LIKE $1 ESCAPE '\'`,
		likeEscape(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("scan prefix %q: %w", prefix, err)
	}
	defer rows.Close()

	var values [][]byte
	for rows.Next() {
		var value []byte
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan prefix %q: %w", prefix, err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan prefix %q: %w", prefix, err)
	}
	return values, nil
}

// likeEscape escapes LIKE metacharacters so an opaque key component can never
// widen the prefix match.
func likeEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
