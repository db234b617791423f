package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/hiring-radar/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS batch_runs (
	id               TEXT PRIMARY KEY,
	generated_at     DATETIME NOT NULL,
	model_id         TEXT,
	total            INTEGER NOT NULL,
	mean_probability REAL NOT NULL,
	report           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS predictions (
	id           TEXT PRIMARY KEY,
	run_id       TEXT REFERENCES batch_runs(id),
	company_id   TEXT NOT NULL,
	company_name TEXT NOT NULL,
	probability  REAL NOT NULL,
	class        INTEGER NOT NULL,
	confidence   TEXT NOT NULL,
	reasons      TEXT NOT NULL,
	model_id     TEXT NOT NULL,
	predicted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_run_id ON predictions(run_id);
CREATE INDEX IF NOT EXISTS idx_predictions_company_id ON predictions(company_id);
CREATE INDEX IF NOT EXISTS idx_predictions_probability ON predictions(probability);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveReport stores the run row and all of its predictions.
func (s *SQLiteStore) SaveReport(ctx context.Context, r *model.Report) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal report")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batch_runs (id, generated_at, model_id, total, mean_probability, report) VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.GeneratedAt, r.ModelID, r.Summary.Total, r.Summary.MeanProbability, string(doc),
	); err != nil {
		return eris.Wrap(err, "sqlite: insert batch run")
	}

	for _, p := range r.Predictions {
		if err := insertPrediction(ctx, tx, r.RunID, p); err != nil {
			return err
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

// SavePrediction stores one standalone prediction. runID may be empty.
func (s *SQLiteStore) SavePrediction(ctx context.Context, runID string, p model.Prediction) error {
	return insertPrediction(ctx, s.db, runID, p)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertPrediction(ctx context.Context, db execer, runID string, p model.Prediction) error {
	reasons, err := json.Marshal(p.Reasons)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal reasons")
	}
	var run any
	if runID != "" {
		run = runID
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO predictions (id, run_id, company_id, company_name, probability, class, confidence, reasons, model_id, predicted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), run, p.CompanyID, p.CompanyName, p.Probability, p.Class,
		string(p.Confidence), string(reasons), p.ModelID, p.PredictedAt,
	)
	return eris.Wrap(err, "sqlite: insert prediction")
}

// ListPredictions returns stored predictions ordered by probability
// descending.
func (s *SQLiteStore) ListPredictions(ctx context.Context, f PredictionFilter) ([]model.Prediction, error) {
	query := `SELECT company_id, company_name, probability, class, confidence, reasons, model_id, predicted_at
		FROM predictions WHERE probability >= ?`
	args := []any{f.MinProbability}
	if f.CompanyID != "" {
		query += ` AND company_id = ?`
		args = append(args, f.CompanyID)
	}
	query += ` ORDER BY probability DESC, predicted_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list predictions")
	}
	defer rows.Close()

	var out []model.Prediction
	for rows.Next() {
		var p model.Prediction
		var confidence, reasons string
		if err := rows.Scan(&p.CompanyID, &p.CompanyName, &p.Probability, &p.Class,
			&confidence, &reasons, &p.ModelID, &p.PredictedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan prediction")
		}
		p.Confidence = model.ConfidenceBucket(confidence)
		p.Label = model.ClassLabel(p.Class)
		if err := json.Unmarshal([]byte(reasons), &p.Reasons); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal reasons")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate predictions")
}
