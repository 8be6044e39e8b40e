package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"telephony-gateway/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

const defaultDirPerm = 0o755

type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{dbPath: path}
}

func (s *SQLiteStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.dbPath), defaultDirPerm); err != nil {
		return fmt.Errorf("error creating database directory: %w", err)
	}

	var err error

	s.db, err = sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	if err = s.db.Ping(); err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS telephony_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		server_type TEXT NOT NULL,
		metric_name TEXT NOT NULL,
		metric_value REAL NOT NULL,
		unit TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_metrics_server_timestamp ON telephony_metrics(server_type, timestamp);
	CREATE INDEX IF NOT EXISTS idx_metrics_name_timestamp ON telephony_metrics(metric_name, timestamp);`

	_, err = s.db.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("error creating table: %w", err)
	}

	return nil
}

// AppendMetrics saves the whole batch in one transaction: either every
// record becomes durably visible or none do. The input slice is never
// mutated or reordered. An empty batch is a no-op.
func (s *SQLiteStore) AppendMetrics(ctx context.Context, metrics []domain.Metric) (int, error) {
	if len(metrics) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO telephony_metrics(timestamp, server_type, metric_name, metric_value, unit) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range metrics {
		ts := m.Timestamp
		if ts == 0 {
			ts = time.Now().UTC().Unix()
		}

		if _, err := stmt.ExecContext(ctx, ts, m.ServerType, m.MetricName, m.MetricValue, m.Unit); err != nil {
			return 0, fmt.Errorf("error inserting metric %s/%s: %w", m.ServerType, m.MetricName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing metrics batch: %w", err)
	}

	return len(metrics), nil
}

func (s *SQLiteStore) CountMetrics(ctx context.Context) (int64, error) {
	var count int64

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM telephony_metrics").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting metrics: %w", err)
	}

	return count, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
