package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/realjck/scorm-iframe-packager/internal/db"
	"github.com/realjck/scorm-iframe-packager/internal/packager"
)

// ErrNotFound is returned by GetByID for an unknown id.
var ErrNotFound = errors.New("history record not found")

// Store persists generation records.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

var _ packager.Recorder = (*Store)(nil)

// Record stores the outcome of one generation.
func (s *Store) Record(ctx context.Context, o packager.Outcome) error {
	return s.Add(ctx, FromOutcome(o))
}

// FromOutcome converts a generation outcome into a Record.
func FromOutcome(o packager.Outcome) Record {
	cfg := o.Config
	rec := Record{
		CreatedAt:   o.Started,
		Title:       cfg.DisplayTitle(),
		Version:     string(cfg.Version()),
		PackageType: string(cfg.Type()),
		Status:      StatusSucceeded,
		DurationMS:  o.Duration.Milliseconds(),
	}
	if p := o.Package; p != nil {
		rec.Name = p.Name
		rec.Size = p.Size()
		rec.SHA256 = p.SHA256
		rec.Entries = len(p.Entries)
		rec.Placeholders = p.Placeholders
	}
	if o.Err != nil {
		rec.Status = StatusFailed
		rec.Error = o.Err.Error()
	}
	return rec
}

// Add inserts rec. If rec.ID is empty a UUID is generated, and a zero
// CreatedAt becomes the current time.
func (s *Store) Add(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.Placeholders == nil {
		rec.Placeholders = []string{}
	}

	placeholders, err := json.Marshal(rec.Placeholders)
	if err != nil {
		return fmt.Errorf("marshalling placeholders: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO generations (
			id, created_at, title, name, version, package_type,
			size, sha256, entries, placeholders, status, error, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.UTC().Format(time.DateTime),
		rec.Title,
		rec.Name,
		rec.Version,
		rec.PackageType,
		rec.Size,
		rec.SHA256,
		rec.Entries,
		string(placeholders),
		string(rec.Status),
		rec.Error,
		rec.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("inserting generation record: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, created_at, title, name, version, package_type,
	size, sha256, entries, placeholders, status, error, duration_ms FROM generations`

// GetByID retrieves a single record.
func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	rec, err := scanInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading generation record: %w", err)
	}
	return rec, nil
}

// Filter controls which records List returns.
type Filter struct {
	Status  Status
	Version string
	Since   *time.Time
	Until   *time.Time
	Limit   int
	Offset  int
}

// List returns records matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Record, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Version != "" {
		clauses = append(clauses, "version = ?")
		args = append(args, filter.Version)
	}
	if filter.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}
	if filter.Until != nil {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, filter.Until.UTC().Format(time.DateTime))
	}

	query := selectColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	} else if filter.Offset > 0 {
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying generation records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// DeleteBefore removes all records older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM generations WHERE created_at < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old generation records: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Record, error) {
	var (
		rec              Record
		ts, status, phJS string
	)

	err := sc.Scan(
		&rec.ID, &ts, &rec.Title, &rec.Name, &rec.Version, &rec.PackageType,
		&rec.Size, &rec.SHA256, &rec.Entries, &phJS, &status, &rec.Error, &rec.DurationMS,
	)
	if err != nil {
		return nil, err
	}

	rec.Status = Status(status)
	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		rec.CreatedAt = t
	} else if t, parseErr := time.Parse(time.RFC3339, ts); parseErr == nil {
		rec.CreatedAt = t
	}
	if err := json.Unmarshal([]byte(phJS), &rec.Placeholders); err != nil || rec.Placeholders == nil {
		rec.Placeholders = []string{}
	}

	return &rec, nil
}
