package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/battlebot/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/battlebot/internal/services/battle/storage"
	"github.com/louisbranch/battlebot/internal/services/battle/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed action journal persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the journal database and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordAction persists one action attempt.
func (s *Store) RecordAction(ctx context.Context, record storage.ActionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	record.Action = strings.TrimSpace(record.Action)
	record.Outcome = strings.TrimSpace(record.Outcome)
	record.Detail = strings.TrimSpace(record.Detail)
	record.LastError = strings.TrimSpace(record.LastError)
	if record.Action == "" {
		return fmt.Errorf("action is required")
	}
	switch record.Outcome {
	case storage.OutcomeSucceeded, storage.OutcomeFailed, storage.OutcomeSkipped:
	case "":
		return fmt.Errorf("outcome is required")
	default:
		return fmt.Errorf("unknown outcome %q", record.Outcome)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO battle_actions (
	action,
	subject_id,
	detail,
	outcome,
	last_error,
	created_at
) VALUES (?, ?, ?, ?, ?, ?)
`,
		record.Action,
		record.SubjectID,
		record.Detail,
		record.Outcome,
		record.LastError,
		record.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record action: %w", err)
	}
	return nil
}

// ListActions lists newest-first action records.
func (s *Store) ListActions(ctx context.Context, limit int) ([]storage.ActionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
	id,
	action,
	subject_id,
	detail,
	outcome,
	last_error,
	created_at
FROM battle_actions
ORDER BY created_at DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	records := make([]storage.ActionRecord, 0, limit)
	for rows.Next() {
		var record storage.ActionRecord
		var createdAt int64
		if err := rows.Scan(
			&record.ID,
			&record.Action,
			&record.SubjectID,
			&record.Detail,
			&record.Outcome,
			&record.LastError,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		record.CreatedAt = time.UnixMilli(createdAt).UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return records, nil
}

var _ storage.ActionStore = (*Store)(nil)
