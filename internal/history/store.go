package history

import (
	"database/sql"
	"fmt"
	"time"

	"mediagrab/internal/domain/consts"
	"mediagrab/internal/utils/logging"

	"github.com/Masterminds/squirrel"
)

// Entry is one finished download.
type Entry struct {
	ID          int64
	URL         string
	Title       string
	Label       string
	FilePath    string
	FileSize    int64
	CompletedAt time.Time
}

// Filter narrows a listing. Zero values mean no restriction.
type Filter struct {
	Since time.Time
	Limit int
}

// Record inserts a finished download and returns its row ID.
func (s *Store) Record(e Entry) (int64, error) {
	if e.CompletedAt.IsZero() {
		e.CompletedAt = time.Now()
	}

	query := squirrel.
		Insert(consts.DBDownloads).
		Columns(
			consts.QDLURL,
			consts.QDLTitle,
			consts.QDLLabel,
			consts.QDLFilePath,
			consts.QDLFileSize,
			consts.QDLCompletedAt,
		).
		Values(
			e.URL,
			e.Title,
			e.Label,
			e.FilePath,
			e.FileSize,
			e.CompletedAt.UTC(),
		).
		RunWith(s.DB)

	result, err := query.Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to record download of %q: %w", e.URL, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted ID: %w", err)
	}
	logging.D(2, "Recorded download %d: %q -> %q", id, e.Title, e.FilePath)
	return id, nil
}

// List returns recorded downloads, most recent first.
func (s *Store) List(f Filter) ([]Entry, error) {
	query := squirrel.
		Select(
			consts.QDLID,
			consts.QDLURL,
			consts.QDLTitle,
			consts.QDLLabel,
			consts.QDLFilePath,
			consts.QDLFileSize,
			consts.QDLCompletedAt,
		).
		From(consts.DBDownloads).
		OrderBy(fmt.Sprintf("%s DESC", consts.QDLCompletedAt), fmt.Sprintf("%s DESC", consts.QDLID))

	if !f.Since.IsZero() {
		query = query.Where(squirrel.GtOrEq{consts.QDLCompletedAt: f.Since.UTC()})
	}
	if f.Limit > 0 {
		query = query.Limit(uint64(f.Limit))
	}

	sqlPlaceholder, args, err := query.PlaceholderFormat(squirrel.Question).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.DB.Query(sqlPlaceholder, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var label sql.NullString
		var size sql.NullInt64

		if err := rows.Scan(
			&e.ID,
			&e.URL,
			&e.Title,
			&label,
			&e.FilePath,
			&size,
			&e.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan download row: %w", err)
		}
		e.Label = label.String
		e.FileSize = size.Int64
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating download rows: %w", err)
	}
	return entries, nil
}
