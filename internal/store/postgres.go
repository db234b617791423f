package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/hiring-radar/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs. pgxmock implements
// it, which keeps the Postgres backend testable without a server.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgx.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used in tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS batch_runs (
	id               TEXT PRIMARY KEY,
	generated_at     TIMESTAMPTZ NOT NULL,
	model_id         TEXT,
	total            INTEGER NOT NULL,
	mean_probability DOUBLE PRECISION NOT NULL,
	report           JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS predictions (
	id           TEXT PRIMARY KEY,
	run_id       TEXT REFERENCES batch_runs(id),
	company_id   TEXT NOT NULL,
	company_name TEXT NOT NULL,
	probability  DOUBLE PRECISION NOT NULL,
	class        INTEGER NOT NULL,
	confidence   TEXT NOT NULL,
	reasons      JSONB NOT NULL,
	model_id     TEXT NOT NULL,
	predicted_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_run_id ON predictions(run_id);
CREATE INDEX IF NOT EXISTS idx_predictions_company_id ON predictions(company_id);
CREATE INDEX IF NOT EXISTS idx_predictions_probability ON predictions(probability);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// SaveReport stores the run row and all of its predictions.
func (s *PostgresStore) SaveReport(ctx context.Context, r *model.Report) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal report")
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO batch_runs (id, generated_at, model_id, total, mean_probability, report) VALUES ($1, $2, $3, $4, $5, $6)`,
		r.RunID, r.GeneratedAt, r.ModelID, r.Summary.Total, r.Summary.MeanProbability, doc,
	); err != nil {
		return eris.Wrap(err, "postgres: insert batch run")
	}
	for _, p := range r.Predictions {
		if err := s.SavePrediction(ctx, r.RunID, p); err != nil {
			return err
		}
	}
	return nil
}

// SavePrediction stores one prediction. runID may be empty.
func (s *PostgresStore) SavePrediction(ctx context.Context, runID string, p model.Prediction) error {
	reasons, err := json.Marshal(p.Reasons)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal reasons")
	}
	var run any
	if runID != "" {
		run = runID
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO predictions (id, run_id, company_id, company_name, probability, class, confidence, reasons, model_id, predicted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.NewString(), run, p.CompanyID, p.CompanyName, p.Probability, p.Class,
		string(p.Confidence), reasons, p.ModelID, p.PredictedAt,
	); err != nil {
		return eris.Wrap(err, "postgres: insert prediction")
	}
	return nil
}

// ListPredictions returns stored predictions ordered by probability
// descending.
func (s *PostgresStore) ListPredictions(ctx context.Context, f PredictionFilter) ([]model.Prediction, error) {
	query := `SELECT company_id, company_name, probability, class, confidence, reasons, model_id, predicted_at
		FROM predictions WHERE probability >= $1`
	args := []any{f.MinProbability}
	if f.CompanyID != "" {
		args = append(args, f.CompanyID)
		query += fmt.Sprintf(` AND company_id = $%d`, len(args))
	}
	query += ` ORDER BY probability DESC, predicted_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list predictions")
	}
	defer rows.Close()

	var out []model.Prediction
	for rows.Next() {
		var p model.Prediction
		var confidence string
		var reasons []byte
		if err := rows.Scan(&p.CompanyID, &p.CompanyName, &p.Probability, &p.Class,
			&confidence, &reasons, &p.ModelID, &p.PredictedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan prediction")
		}
		p.Confidence = model.ConfidenceBucket(confidence)
		p.Label = model.ClassLabel(p.Class)
		if err := json.Unmarshal(reasons, &p.Reasons); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal reasons")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate predictions")
}
