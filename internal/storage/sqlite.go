package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveResult(ctx context.Context, req model.CutRequest, result model.CutResult) (int64, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}

	lengths, err := json.Marshal(req.ElementLengths)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO cutting_requests (raw_length, desired_lengths, created_at)
		VALUES (?, ?, ?)
	`, req.BeamLength, string(lengths), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	requestID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, entry := range result.Genome {
		pattern, ok := result.PatternByID(entry.PatternID)
		if !ok {
			return 0, fmt.Errorf("plan references unknown pattern %s", entry.PatternID)
		}

		layout, err := json.Marshal(pattern.Layout)
		if err != nil {
			return 0, err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO cutting_patterns (id, stock_size, pattern, waste)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				stock_size = excluded.stock_size,
				pattern = excluded.pattern,
				waste = excluded.waste
		`, pattern.ID, pattern.StockSize, string(layout), pattern.Waste)
		if err != nil {
			return 0, err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO cutting_pattern_usages (request_id, pattern_id, repetition)
			VALUES (?, ?, ?)
		`, requestID, pattern.ID, entry.Repetition)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return requestID, nil
}

func (s *SQLiteStore) GetRequest(ctx context.Context, id int64) (SavedRequest, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return SavedRequest{}, false, err
	}

	var (
		saved      SavedRequest
		lengthsRaw string
		createdRaw string
	)
	err = db.QueryRowContext(ctx, `
		SELECT id, raw_length, desired_lengths, created_at
		FROM cutting_requests WHERE id = ?
	`, id).Scan(&saved.ID, &saved.BeamLength, &lengthsRaw, &createdRaw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SavedRequest{}, false, nil
		}
		return SavedRequest{}, false, err
	}

	if err := json.Unmarshal([]byte(lengthsRaw), &saved.ElementLengths); err != nil {
		return SavedRequest{}, false, fmt.Errorf("decode request %d lengths: %w", id, err)
	}
	saved.CreatedAt, err = time.Parse(time.RFC3339, createdRaw)
	if err != nil {
		return SavedRequest{}, false, fmt.Errorf("decode request %d timestamp: %w", id, err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT p.id, p.stock_size, p.pattern, p.waste, u.repetition
		FROM cutting_pattern_usages u
		JOIN cutting_patterns p ON p.id = u.pattern_id
		WHERE u.request_id = ?
		ORDER BY u.id
	`, id)
	if err != nil {
		return SavedRequest{}, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			usage     SavedUsage
			layoutRaw string
		)
		if err := rows.Scan(&usage.Pattern.ID, &usage.Pattern.StockSize, &layoutRaw, &usage.Pattern.Waste, &usage.Repetition); err != nil {
			return SavedRequest{}, false, err
		}
		if err := json.Unmarshal([]byte(layoutRaw), &usage.Pattern.Layout); err != nil {
			return SavedRequest{}, false, fmt.Errorf("decode pattern %s layout: %w", usage.Pattern.ID, err)
		}
		saved.Usages = append(saved.Usages, usage)
	}
	if err := rows.Err(); err != nil {
		return SavedRequest{}, false, err
	}

	return saved, true, nil
}

func (s *SQLiteStore) ListRequests(ctx context.Context, limit int) ([]SavedRequest, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, raw_length, desired_lengths, created_at
		FROM cutting_requests
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saved []SavedRequest
	for rows.Next() {
		var (
			r          SavedRequest
			lengthsRaw string
			createdRaw string
		)
		if err := rows.Scan(&r.ID, &r.BeamLength, &lengthsRaw, &createdRaw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(lengthsRaw), &r.ElementLengths); err != nil {
			return nil, fmt.Errorf("decode request %d lengths: %w", r.ID, err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339, createdRaw)
		if err != nil {
			return nil, fmt.Errorf("decode request %d timestamp: %w", r.ID, err)
		}
		saved = append(saved, r)
	}
	return saved, rows.Err()
}

func (s *SQLiteStore) CountRequests(ctx context.Context) (int, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}

	var count int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cutting_requests`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cutting_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			raw_length INTEGER NOT NULL,
			desired_lengths TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS cutting_patterns (
			id TEXT PRIMARY KEY,
			stock_size INTEGER NOT NULL,
			pattern TEXT NOT NULL,
			waste INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS cutting_pattern_usages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id INTEGER NOT NULL REFERENCES cutting_requests(id),
			pattern_id TEXT NOT NULL REFERENCES cutting_patterns(id),
			repetition INTEGER NOT NULL
		);
	`)
	return err
}
