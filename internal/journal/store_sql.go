package journal

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// SQLStore persists entries in the journal_entries table. Queries use $1
// placeholders, which both supported drivers accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Create(ctx context.Context, userID, title, content string, mood int) (Entry, error) {
	if err := validate(content, mood); err != nil {
		return Entry{}, err
	}
	now := time.Now().UTC()
	e := Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Mood:      mood,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var mv sql.NullInt64
	if mood != 0 {
		mv = sql.NullInt64{Int64: int64(mood), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO journal_entries (id, user_id, title, content, mood, is_analyzed, analysis_json, analysis_error, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,FALSE,'','',$6,$6)`,
		e.ID, e.UserID, e.Title, e.Content, mv, now.Unix())
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, mood, is_analyzed, analysis_json, analysis_error, created_at, updated_at
		 FROM journal_entries WHERE id=$1`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	return e, err
}

func (s *SQLStore) ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	q := `SELECT id, user_id, title, content, mood, is_analyzed, analysis_json, analysis_error, created_at, updated_at
	      FROM journal_entries WHERE user_id=$1 ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetAnalysis(ctx context.Context, id, analysisJSON, analysisErr string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE journal_entries SET analysis_json=$1, analysis_error=$2, is_analyzed=$3, updated_at=$4 WHERE id=$5`,
		analysisJSON, analysisErr, analysisJSON != "", time.Now().UTC().Unix(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (Entry, error) {
	var (
		e       Entry
		mood    sql.NullInt64
		created int64
		updated int64
	)
	if err := r.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &mood, &e.IsAnalyzed, &e.AnalysisJSON, &e.AnalysisError, &created, &updated); err != nil {
		return Entry{}, err
	}
	if mood.Valid {
		e.Mood = int(mood.Int64)
	}
	e.CreatedAt = time.Unix(created, 0).UTC()
	e.UpdatedAt = time.Unix(updated, 0).UTC()
	return e, nil
}
