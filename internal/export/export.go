// Package export builds anonymized research archives: a zip of CSV tables
// (sessions, responses, results) plus the question catalog, suitable for
// offline analysis.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mindful-metrics/scrollcheck/internal/assessment"
	"github.com/mindful-metrics/scrollcheck/internal/storage"
)

type Service struct {
	db    *sql.DB
	blobs storage.BlobStore
}

func NewService(db *sql.DB, blobs storage.BlobStore) *Service {
	return &Service{db: db, blobs: blobs}
}

// CreateArchive writes a fresh archive to the blob store and returns its key.
// User identifiers are replaced with stable per-archive aliases so the data
// can be shared without exposing account IDs.
func (s *Service) CreateArchive(ctx context.Context) (string, error) {
	data, err := s.buildArchive(ctx)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("exports/scrollcheck-%s.zip", time.Now().UTC().Format("20060102-150405"))
	return s.blobs.Put(key, bytes.NewReader(data))
}

func (s *Service) buildArchive(ctx context.Context) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	aliases := map[string]string{}
	alias := func(userID string) string {
		if a, ok := aliases[userID]; ok {
			return a
		}
		a := fmt.Sprintf("p%03d", len(aliases)+1)
		aliases[userID] = a
		return a
	}

	if err := s.writeSessions(ctx, zw, alias); err != nil {
		return nil, err
	}
	if err := s.writeResponses(ctx, zw); err != nil {
		return nil, err
	}
	if err := s.writeResults(ctx, zw); err != nil {
		return nil, err
	}
	if err := writeCatalog(zw); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) writeSessions(ctx context.Context, zw *zip.Writer, alias func(string) string) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, started_at, completed_at, is_complete, version FROM sessions ORDER BY started_at`)
	if err != nil {
		return err
	}
	defer rows.Close()

	w, err := zw.Create("sessions.csv")
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Write([]string{"session_id", "participant", "started_at", "completed_at", "is_complete", "version"})
	for rows.Next() {
		var (
			id, userID, version string
			startedAt           int64
			completedAt         sql.NullInt64
			isComplete          bool
		)
		if err := rows.Scan(&id, &userID, &startedAt, &completedAt, &isComplete, &version); err != nil {
			return err
		}
		completed := ""
		if completedAt.Valid {
			completed = time.Unix(completedAt.Int64, 0).UTC().Format(time.RFC3339)
		}
		cw.Write([]string{
			id, alias(userID),
			time.Unix(startedAt, 0).UTC().Format(time.RFC3339),
			completed,
			strconv.FormatBool(isComplete),
			version,
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) writeResponses(ctx context.Context, zw *zip.Writer) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, question_id, original_item, construct, dimension, score, created_at
		 FROM responses ORDER BY session_id, question_id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	w, err := zw.Create("responses.csv")
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Write([]string{"session_id", "question_id", "original_item", "construct", "dimension", "score", "answered_at"})
	for rows.Next() {
		var (
			sessionID, questionID, item, construct, dimension string
			score                                             int
			at                                                int64
		)
		if err := rows.Scan(&sessionID, &questionID, &item, &construct, &dimension, &score, &at); err != nil {
			return err
		}
		cw.Write([]string{
			sessionID, questionID, item, construct, dimension,
			strconv.Itoa(score),
			time.Unix(at, 0).UTC().Format(time.RFC3339),
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) writeResults(ctx context.Context, zw *zip.Writer) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, overall_score, overall_percentile, overall_severity, risk_level, scores_json
		 FROM results ORDER BY created_at`)
	if err != nil {
		return err
	}
	defer rows.Close()

	w, err := zw.Create("results.csv")
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	header := []string{"session_id", "overall_score", "overall_percentile", "overall_severity", "risk_level"}
	for _, d := range assessment.Dimensions {
		header = append(header, d.ID)
	}
	cw.Write(header)
	for rows.Next() {
		var (
			sessionID, severity, riskLevel, scoresJSON string
			overall                                    float64
			percentile                                 int
		)
		if err := rows.Scan(&sessionID, &overall, &percentile, &severity, &riskLevel, &scoresJSON); err != nil {
			return err
		}
		rec := []string{
			sessionID,
			strconv.FormatFloat(overall, 'f', 2, 64),
			strconv.Itoa(percentile),
			severity,
			riskLevel,
		}
		dims := map[string]float64{}
		var scores assessment.Result
		if err := json.Unmarshal([]byte(scoresJSON), &scores); err == nil {
			for _, ds := range scores.DimensionScores {
				dims[ds.DimensionID] = ds.Score
			}
		}
		for _, d := range assessment.Dimensions {
			rec = append(rec, strconv.FormatFloat(dims[d.ID], 'f', 2, 64))
		}
		cw.Write(rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// writeCatalog embeds the questionnaire definition so an archive is
// self-describing even after the catalog evolves.
func writeCatalog(zw *zip.Writer) error {
	w, err := zw.Create("catalog.json")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"questions":  assessment.Questions,
		"constructs": assessment.Constructs,
		"dimensions": assessment.Dimensions,
		"scale":      assessment.Scale,
	})
}
