// Package store persists batch runs and predictions so ranked results can
// be reviewed later. Two backends exist: SQLite for local use and Postgres
// for shared deployments.
package store

import (
	"context"

	"github.com/sells-group/hiring-radar/internal/model"
)

// PredictionFilter narrows a listing.
type PredictionFilter struct {
	CompanyID      string
	MinProbability float64
	Limit          int
}

// Store is the persistence interface for prediction results.
type Store interface {
	SaveReport(ctx context.Context, r *model.Report) error
	SavePrediction(ctx context.Context, runID string, p model.Prediction) error
	ListPredictions(ctx context.Context, f PredictionFilter) ([]model.Prediction, error)

	Migrate(ctx context.Context) error
	Close() error
}
