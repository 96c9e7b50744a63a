package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/snakeboard/internal/leaderboard"
)

// sqliteTimeLayout is fixed width so text comparison orders like time.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

// dialect captures what differs between the SQL backends.
type dialect struct {
	name       string
	driver     string
	schema     []string
	numbered   bool // $1, $2 placeholders instead of ?
	singleConn bool
	encodeTime func(time.Time) any
}

var sqliteDialect = dialect{
	name:   "sqlite",
	driver: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name VARCHAR(24) NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(score DESC, created_at ASC)`,
	},
	singleConn: true,
	encodeTime: func(t time.Time) any {
		return t.UTC().Format(sqliteTimeLayout)
	},
}

var postgresDialect = dialect{
	name:   "postgres",
	driver: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id SERIAL PRIMARY KEY,
			name VARCHAR(24) NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(score DESC, created_at ASC)`,
	},
	numbered: true,
	encodeTime: func(t time.Time) any {
		return t.UTC()
	},
}

// rebind rewrites ? placeholders for dialects that number them. Every ? is
// treated as a placeholder, so queries must not contain literal question marks.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const (
	queryTop = `SELECT name, score, created_at FROM scores
		ORDER BY score DESC, created_at ASC, id ASC
		LIMIT ?`
	queryInsert = `INSERT INTO scores (name, score, created_at) VALUES (?, ?, ?)`
	queryTrim   = `DELETE FROM scores WHERE id NOT IN (
		SELECT id FROM scores ORDER BY score DESC, created_at ASC, id ASC LIMIT ?
	)`
	queryCount = `SELECT COUNT(*) FROM scores`
)

// SQLStore keeps the leaderboard in a relational table.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

func openSQL(d dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open %s database: %w", d.name, err)
	}
	if d.singleConn {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to %s database: %w", d.name, err)
	}

	store := &SQLStore{db: db, dialect: d}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the schema if it doesn't exist.
func (s *SQLStore) migrate() error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// List returns up to limit entries in rank order.
func (s *SQLStore) List(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(queryTop), clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanEntries(rows)
}

// Append inserts e and trims the table to the retention cap in one
// transaction, then returns the top view.
func (s *SQLStore) Append(ctx context.Context, e leaderboard.Entry) ([]leaderboard.Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, s.dialect.rebind(queryInsert),
		e.Name, e.Score, s.dialect.encodeTime(e.CreatedAt)); err != nil {
		return nil, fmt.Errorf("storage: cannot save score: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.dialect.rebind(queryTrim), leaderboard.RetentionCap); err != nil {
		return nil, fmt.Errorf("storage: cannot trim scores: %w", err)
	}

	rows, err := tx.QueryContext(ctx, s.dialect.rebind(queryTop), leaderboard.ResultCap)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("storage: cannot commit: %w", err)
	}
	return entries, nil
}

// Count returns the number of retained entries.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, queryCount).Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count scores: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]leaderboard.Entry, error) {
	defer rows.Close()

	entries := make([]leaderboard.Entry, 0)
	for rows.Next() {
		var e leaderboard.Entry
		var createdAt any
		if err := rows.Scan(&e.Name, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

var timeLayouts = []string{
	sqliteTimeLayout,
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// parseTime handles both time.Time and the text forms SQLite returns.
func parseTime(v any) time.Time {
	var s string
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > leaderboard.ResultCap {
		return leaderboard.ResultCap
	}
	return limit
}

// withSSLMode disables TLS unless the DSN asks for it. lib/pq would
// otherwise default to sslmode=require.
func withSSLMode(dsn string) string {
	if strings.Contains(dsn, "sslmode") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
		return u.String()
	}
	return strings.TrimSpace(dsn) + " sslmode=disable"
}
