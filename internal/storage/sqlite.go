// Package storage provides persistence for t2048: high scores and save slots
// in SQLite (pure-Go modernc.org/sqlite driver, no CGO), a single save file,
// and Redis save slots for shared servers.
package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// Store manages the SQLite database connection for scores and saved games.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	Player    string
	Score     int
	MaxTile   int
	CreatedAt time.Time
}

// Stats contains aggregated score statistics.
type Stats struct {
	GamesCount int
	HighScore  int
	AvgScore   float64
	BestTile   int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// SSH sessions write concurrently.
	for _, pragma := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA busy_timeout=5000;"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: %s: %w", pragma, err)
		}
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// expandHome expands a leading ~ to the home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			max_tile INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);

		CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			record TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(player string, score, maxTile int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (player, score, max_tile) VALUES (?, ?, ?)",
		player, score, maxTile,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores, highest first.
func (s *Store) TopScores(limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, player, score, max_tile, created_at
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &e.Score, &e.MaxTile, &createdAt); err != nil {
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

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// HighScore returns the highest recorded score, or 0 if none exist.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM scores").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores.
func (s *Store) ClearScores() error {
	_, err := s.db.Exec("DELETE FROM scores")
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Stats retrieves aggregated score statistics.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(MAX(max_tile), 0), MAX(created_at)
		 FROM scores`,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.BestTile, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// Slot returns the named save slot. Slots are created on first save.
func (s *Store) Slot(name string) *Slot {
	return &Slot{db: s.db, name: name}
}

// Slots lists the names of all saved slots.
func (s *Store) Slots(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT slot FROM saves ORDER BY slot")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list slots: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("storage: cannot scan slot: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return names, nil
}

// Slot is one saved game in the database. It implements t2048.RecordStore.
type Slot struct {
	db   *sql.DB
	name string
}

var _ t2048.RecordStore = (*Slot)(nil)

// Name returns the slot name.
func (sl *Slot) Name() string { return sl.name }

// Put replaces the slot contents.
func (sl *Slot) Put(ctx context.Context, rec t2048.SaveRecord) error {
	var buf bytes.Buffer
	if err := t2048.EncodeRecord(&buf, rec); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	_, err := sl.db.ExecContext(ctx,
		`INSERT INTO saves (slot, score, record, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET
		   score = excluded.score,
		   record = excluded.record,
		   updated_at = excluded.updated_at`,
		sl.name, rec.Score, buf.String(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save slot %q: %w", sl.name, err)
	}
	return nil
}

// Get reads the slot contents.
func (sl *Slot) Get(ctx context.Context) (t2048.SaveRecord, error) {
	var record string
	err := sl.db.QueryRowContext(ctx,
		"SELECT record FROM saves WHERE slot = ?", sl.name,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return t2048.SaveRecord{}, fmt.Errorf("storage: slot %q: %w", sl.name, t2048.ErrNoSavedGame)
	}
	if err != nil {
		return t2048.SaveRecord{}, fmt.Errorf("storage: cannot read slot %q: %w", sl.name, err)
	}

	rec, err := t2048.DecodeRecord(bytes.NewReader([]byte(record)))
	if err != nil {
		return t2048.SaveRecord{}, fmt.Errorf("storage: slot %q: %w", sl.name, err)
	}
	return rec, nil
}

// Delete removes the slot. Deleting an empty slot is not an error.
func (sl *Slot) Delete(ctx context.Context) error {
	if _, err := sl.db.ExecContext(ctx, "DELETE FROM saves WHERE slot = ?", sl.name); err != nil {
		return fmt.Errorf("storage: cannot delete slot %q: %w", sl.name, err)
	}
	return nil
}
