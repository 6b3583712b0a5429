package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mindful-metrics/scrollcheck/internal/assessment"
)

// SQLStore persists sessions in sqlite or postgres through database/sql.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Create(userID string) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: time.Now().UTC(),
		Version:   Version,
	}
	_, err := s.db.Exec(`INSERT INTO sessions (id, user_id, started_at, is_complete, version)
		VALUES ($1,$2,$3,FALSE,$4)`,
		sess.ID, sess.UserID, sess.StartedAt.Unix(), sess.Version)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *SQLStore) Get(id string) (Session, error) {
	row := s.db.QueryRow(`SELECT id, user_id, started_at, completed_at, is_complete, version
		FROM sessions WHERE id=$1`, id)
	return scanSession(row)
}

func (s *SQLStore) ListByUser(userID string) ([]Session, error) {
	rows, err := s.db.Query(`SELECT id, user_id, started_at, completed_at, is_complete, version
		FROM sessions WHERE user_id=$1 ORDER BY started_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (Session, error) {
	var (
		sess      Session
		startedAt int64
		completed sql.NullInt64
	)
	err := row.Scan(&sess.ID, &sess.UserID, &startedAt, &completed, &sess.IsComplete, &sess.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	sess.StartedAt = time.Unix(startedAt, 0).UTC()
	if completed.Valid {
		t := time.Unix(completed.Int64, 0).UTC()
		sess.CompletedAt = &t
	}
	return sess, nil
}

func (s *SQLStore) SaveResponse(sessionID, questionID string, score int, at time.Time) error {
	if err := validateResponse(questionID, score); err != nil {
		return err
	}
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	if sess.IsComplete {
		return ErrAlreadyComplete
	}
	q, _ := assessment.QuestionByID(questionID)
	// Upsert keyed by (session, question): answering again replaces the
	// earlier answer rather than adding to it.
	_, err = s.db.Exec(`INSERT INTO responses (session_id, question_id, original_item, construct, dimension, score, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (session_id, question_id)
		DO UPDATE SET score=EXCLUDED.score, created_at=EXCLUDED.created_at`,
		sessionID, questionID, q.OriginalItem, q.Construct, q.Dimension, score, at.Unix())
	return err
}

func (s *SQLStore) Responses(sessionID string) ([]assessment.Response, error) {
	rows, err := s.db.Query(`SELECT question_id, score, created_at
		FROM responses WHERE session_id=$1 ORDER BY question_id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []assessment.Response
	for rows.Next() {
		var (
			r  assessment.Response
			at int64
		)
		if err := rows.Scan(&r.QuestionID, &r.Score, &at); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(at, 0).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) Complete(sessionID string) (Result, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return Result{}, err
	}
	if sess.IsComplete {
		return Result{}, ErrAlreadyComplete
	}
	responses, err := s.Responses(sessionID)
	if err != nil {
		return Result{}, err
	}
	if len(responses) == 0 {
		return Result{}, ErrSessionHasNoData
	}

	res, err := computeResult(responses, sessionID)
	if err != nil {
		return Result{}, err
	}

	scoresJSON, err := json.Marshal(res.Scores)
	if err != nil {
		return Result{}, err
	}
	predictionsJSON, err := json.Marshal(res.Predictions)
	if err != nil {
		return Result{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Result{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO results (session_id, overall_score, overall_percentile, overall_severity, risk_level, scores_json, predictions_json, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		sessionID, res.Scores.OverallScore, res.Scores.OverallPercentile,
		res.Scores.OverallSeverity.Key, res.Predictions.RiskLevel,
		string(scoresJSON), string(predictionsJSON), res.CreatedAt.Unix())
	if err != nil {
		return Result{}, err
	}
	_, err = tx.Exec(`UPDATE sessions SET is_complete=TRUE, completed_at=$1 WHERE id=$2`,
		res.CreatedAt.Unix(), sessionID)
	if err != nil {
		return Result{}, err
	}
	if err := tx.Commit(); err != nil {
		return Result{}, err
	}
	return res, nil
}

func (s *SQLStore) GetResult(sessionID string) (Result, error) {
	row := s.db.QueryRow(`SELECT session_id, scores_json, predictions_json, created_at
		FROM results WHERE session_id=$1`, sessionID)
	var (
		res         Result
		scoresJSON  string
		predsJSON   string
		createdUnix int64
	)
	if err := row.Scan(&res.SessionID, &scoresJSON, &predsJSON, &createdUnix); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, ErrResultNotFound
		}
		return Result{}, err
	}
	if err := json.Unmarshal([]byte(scoresJSON), &res.Scores); err != nil {
		return Result{}, err
	}
	if err := json.Unmarshal([]byte(predsJSON), &res.Predictions); err != nil {
		return Result{}, err
	}
	res.CreatedAt = time.Unix(createdUnix, 0).UTC()
	return res, nil
}

func (s *SQLStore) History(userID string) ([]HistoryPoint, error) {
	rows, err := s.db.Query(`SELECT r.session_id, r.scores_json, r.created_at
		FROM results r JOIN sessions s ON s.id = r.session_id
		WHERE s.user_id=$1 ORDER BY r.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryPoint
	for rows.Next() {
		var (
			res         Result
			scoresJSON  string
			createdUnix int64
		)
		if err := rows.Scan(&res.SessionID, &scoresJSON, &createdUnix); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(scoresJSON), &res.Scores); err != nil {
			return nil, err
		}
		res.CreatedAt = time.Unix(createdUnix, 0).UTC()
		out = append(out, historyPoint(res))
	}
	return out, rows.Err()
}
