package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"recut/internal/services"
	"recut/internal/timeline"
)

// Store manages the recording catalog backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the catalog database at path, creating it and its
// parent directory when missing, and verifies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: catalog path is empty", services.ErrConfiguration)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path reports the database file location.
func (s *Store) Path() string {
	return s.path
}

// Add inserts a recording together with its cut marks and credits.
func (s *Store) Add(ctx context.Context, rec *Recording, marks []CutMark, credits []Credit) (*Recording, error) {
	if rec == nil {
		return nil, errors.New("recording is nil")
	}
	if strings.TrimSpace(rec.ChannelID) == "" {
		return nil, fmt.Errorf("%w: recording channel is empty", services.ErrValidation)
	}
	if rec.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: recording start time is unset", services.ErrValidation)
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO recordings (
            channel_id, start_time, title, subtitle, description, category,
            original_airdate, episode_code, rating, fps, file_path,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ChannelID,
		rec.StartTime.UTC().Format(time.RFC3339Nano),
		nullableString(rec.Title),
		nullableString(rec.Subtitle),
		nullableString(rec.Description),
		nullableString(rec.Category),
		nullableString(rec.OriginalAirdate),
		nullableString(rec.EpisodeCode),
		nullableString(rec.Rating),
		rec.FPS,
		nullableString(rec.FilePath),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recording: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, mark := range marks {
		if mark.EndFrame <= mark.StartFrame {
			return nil, fmt.Errorf("%w: cut mark %d-%d is not a forward range", services.ErrValidation, mark.StartFrame, mark.EndFrame)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO cut_marks (recording_id, start_frame, end_frame) VALUES (?, ?, ?)`,
			id, mark.StartFrame, mark.EndFrame,
		); err != nil {
			return nil, fmt.Errorf("insert cut mark: %w", err)
		}
	}

	for _, credit := range credits {
		if strings.TrimSpace(credit.Person) == "" {
			continue
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO credits (recording_id, person, role) VALUES (?, ?, ?)`,
			id, credit.Person, credit.Role,
		); err != nil {
			return nil, fmt.Errorf("insert credit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a recording by identifier. A missing row is an
// ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (*Recording, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordingColumns+` FROM recordings WHERE id = ?`, id)
	rec, err := scanRecording(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: recording %d is not in the catalog", services.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get recording: %w", err)
	}
	return rec, nil
}

// GetByChannelTime fetches the recording captured on a channel at the
// given start time. A missing row is an ErrNotFound.
func (s *Store) GetByChannelTime(ctx context.Context, channelID string, start time.Time) (*Recording, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordingColumns+` FROM recordings WHERE channel_id = ? AND start_time = ?`,
		channelID,
		start.UTC().Format(time.RFC3339Nano),
	)
	rec, err := scanRecording(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no recording on channel %s at %s", services.ErrNotFound, channelID, FormatStartTime(start))
	}
	if err != nil {
		return nil, fmt.Errorf("get recording by channel and time: %w", err)
	}
	return rec, nil
}

// List returns all recordings, newest first.
func (s *Store) List(ctx context.Context) ([]*Recording, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordingColumns+` FROM recordings ORDER BY start_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	defer rows.Close()

	var recs []*Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// CutMarks returns the stored frame pairs for a recording in insertion order.
func (s *Store) CutMarks(ctx context.Context, recordingID int64) ([]CutMark, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT start_frame, end_frame FROM cut_marks WHERE recording_id = ? ORDER BY id`,
		recordingID,
	)
	if err != nil {
		return nil, fmt.Errorf("query cut marks: %w", err)
	}
	defer rows.Close()

	var marks []CutMark
	for rows.Next() {
		var mark CutMark
		if err := rows.Scan(&mark.StartFrame, &mark.EndFrame); err != nil {
			return nil, err
		}
		marks = append(marks, mark)
	}
	return marks, rows.Err()
}

// Cutlist converts the recording's frame pairs to seconds using fps.
func (s *Store) Cutlist(ctx context.Context, recordingID int64, fps float64) (timeline.Cutlist, error) {
	if fps <= 0 || math.IsInf(fps, 0) || math.IsNaN(fps) {
		return nil, fmt.Errorf("%w: frame rate %v cannot convert frames to seconds", services.ErrValidation, fps)
	}
	marks, err := s.CutMarks(ctx, recordingID)
	if err != nil {
		return nil, err
	}
	cuts := make(timeline.Cutlist, 0, len(marks))
	for _, mark := range marks {
		cuts = append(cuts, timeline.Cut{
			Start: float64(mark.StartFrame) / fps,
			End:   float64(mark.EndFrame) / fps,
		})
	}
	return cuts, nil
}

// Credits returns the stored cast and crew for a recording in insertion order.
func (s *Store) Credits(ctx context.Context, recordingID int64) ([]Credit, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT person, role FROM credits WHERE recording_id = ? ORDER BY id`,
		recordingID,
	)
	if err != nil {
		return nil, fmt.Errorf("query credits: %w", err)
	}
	defer rows.Close()

	var credits []Credit
	for rows.Next() {
		var credit Credit
		if err := rows.Scan(&credit.Person, &credit.Role); err != nil {
			return nil, err
		}
		credits = append(credits, credit)
	}
	return credits, rows.Err()
}

// Remove deletes a recording and its child rows.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete recording: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

const recordingColumns = "id, channel_id, start_time, title, subtitle, description, category, original_airdate, episode_code, rating, fps, file_path, created_at, updated_at"

func scanRecording(scanner interface{ Scan(dest ...any) error }) (*Recording, error) {
	var (
		id         int64
		channelID  string
		startRaw   string
		title      sql.NullString
		subtitle   sql.NullString
		descr      sql.NullString
		category   sql.NullString
		airdate    sql.NullString
		episode    sql.NullString
		rating     sql.NullString
		fps        sql.NullFloat64
		filePath   sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&channelID,
		&startRaw,
		&title,
		&subtitle,
		&descr,
		&category,
		&airdate,
		&episode,
		&rating,
		&fps,
		&filePath,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	rec := &Recording{
		ID:              id,
		ChannelID:       channelID,
		Title:           title.String,
		Subtitle:        subtitle.String,
		Description:     descr.String,
		Category:        category.String,
		OriginalAirdate: airdate.String,
		EpisodeCode:     episode.String,
		Rating:          rating.String,
		FPS:             fps.Float64,
		FilePath:        filePath.String,
	}
	if start, err := parseTimeString(startRaw); err == nil {
		rec.StartTime = start
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		rec.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		rec.UpdatedAt = updated
	}
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
