package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
	defaultKey  = "default"
)

// snapshotColumns is the column order shared by every insert and select.
var snapshotColumns = []string{
	"run_id", "project_key", "schema_version", "ts_utc", "commit_hash", "commit_ts_utc",
	"module_count", "edge_count", "violation_count", "upward_count", "breach_count", "cycle_count",
	"unclassified_count", "avg_fan_out", "max_fan_in", "max_fan_out", "max_depth",
}

var (
	upsertSnapshotSQL = buildUpsert()
	selectSnapshotSQL = "SELECT " + strings.Join(snapshotColumns, ", ") + " FROM snapshots WHERE project_key = ?"
)

// Store persists run snapshots in a single-connection SQLite database.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}
	if dir := filepath.Dir(cleanPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	db, err := sql.Open(driverName, dsn(cleanPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}
	return &Store{path: cleanPath, db: db}, nil
}

// dsn enables WAL and a busy timeout so watch-mode writes rarely see locks.
func dsn(path string) string {
	return "file:" + path +
		"?_pragma=busy_timeout(2000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(ON)"
}

func buildUpsert() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(snapshotColumns)), ", ")
	updates := make([]string, 0, len(snapshotColumns)-1)
	for _, col := range snapshotColumns[1:] {
		updates = append(updates, col+"=excluded."+col)
	}
	return "INSERT INTO snapshots (" + strings.Join(snapshotColumns, ", ") + ") VALUES (" + placeholders + ")" +
		" ON CONFLICT(run_id) DO UPDATE SET " + strings.Join(updates, ", ")
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSnapshot inserts snapshot, or replaces the row with the same run id.
// A missing run id or timestamp is generated.
func (s *Store) SaveSnapshot(projectKey string, snapshot Snapshot) error {
	if snapshot.SchemaVersion == 0 {
		snapshot.SchemaVersion = SchemaVersion
	}
	if snapshot.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported snapshot schema version %d", snapshot.SchemaVersion)
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	if strings.TrimSpace(snapshot.RunID) == "" {
		snapshot.RunID = uuid.NewString()
	}
	snapshot.ProjectKey = normalizeProjectKey(projectKey)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withRetry("save snapshot", func() error {
		_, err := s.db.Exec(upsertSnapshotSQL, snapshotArgs(snapshot)...)
		return err
	})
}

func snapshotArgs(s Snapshot) []any {
	commitTS := ""
	if !s.CommitTimestamp.IsZero() {
		commitTS = s.CommitTimestamp.UTC().Format(time.RFC3339Nano)
	}
	return []any{
		s.RunID, s.ProjectKey, s.SchemaVersion, s.Timestamp.UTC().Format(time.RFC3339Nano), s.CommitHash, commitTS,
		s.ModuleCount, s.EdgeCount, s.ViolationCount, s.UpwardCount, s.BreachCount, s.CycleCount,
		s.UnclassifiedCount, s.AvgFanOut, s.MaxFanIn, s.MaxFanOut, s.MaxDepth,
	}
}

// LoadSnapshots returns the project's snapshots at or after since in
// chronological order. A zero since loads everything.
func (s *Store) LoadSnapshots(projectKey string, since time.Time) ([]Snapshot, error) {
	query := selectSnapshotSQL
	args := []any{normalizeProjectKey(projectKey)}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC, run_id ASC"

	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load snapshots", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return snapshots, nil
}

func scanSnapshot(rows *sql.Rows) (Snapshot, error) {
	var (
		s                  Snapshot
		tsRaw, commitTSRaw string
	)
	err := rows.Scan(
		&s.RunID, &s.ProjectKey, &s.SchemaVersion, &tsRaw, &s.CommitHash, &commitTSRaw,
		&s.ModuleCount, &s.EdgeCount, &s.ViolationCount, &s.UpwardCount, &s.BreachCount, &s.CycleCount,
		&s.UnclassifiedCount, &s.AvgFanOut, &s.MaxFanIn, &s.MaxFanOut, &s.MaxDepth,
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("scan snapshot row: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, tsRaw)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot timestamp %q: %w", tsRaw, err)
	}
	s.Timestamp = ts.UTC()
	if commitTSRaw != "" {
		commitTS, err := time.Parse(time.RFC3339Nano, commitTSRaw)
		if err != nil {
			return Snapshot{}, fmt.Errorf("parse commit timestamp %q: %w", commitTSRaw, err)
		}
		s.CommitTimestamp = commitTS.UTC()
	}
	return s, nil
}

func normalizeProjectKey(key string) string {
	if key = strings.TrimSpace(key); key == "" {
		return defaultKey
	}
	return key
}

// withRetry retries fn with linear backoff while SQLite reports a lock.
func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isLockError(lastErr) {
			break
		}
		if attempt < maxAttempts {
			time.Sleep(time.Duration(attempt*25) * time.Millisecond)
		}
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// IsCorruptError reports whether err means the file is not a usable SQLite
// database.
func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
