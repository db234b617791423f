// Package batch composes adapter, extractor and predictor over a set of
// companies and produces the ranked report document.
package batch

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/hiring-radar/internal/adapter"
	"github.com/sells-group/hiring-radar/internal/feature"
	"github.com/sells-group/hiring-radar/internal/model"
	"github.com/sells-group/hiring-radar/internal/predict"
)

// Orchestrator runs prediction batches. Workers > 1 fans companies out over
// a bounded errgroup; the predictor cache is shared read-only and results
// are collected by input index, so the output is identical either way.
type Orchestrator struct {
	predictor *predict.Predictor
	workers   int
}

// New creates an orchestrator. workers < 1 means sequential.
func New(p *predict.Predictor, workers int) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{predictor: p, workers: workers}
}

// outcome is the per-company intermediate result, indexed by input order.
type outcome struct {
	pred    *model.Prediction
	skipped *model.SkippedItem
}

// Run adapts, extracts and predicts every bundle, then assembles the
// ranked report. Per-item failures are skipped and recorded; the batch as
// a whole fails only on cancellation.
func (o *Orchestrator) Run(ctx context.Context, bundles []adapter.Bundle) (*model.Report, error) {
	now := time.Now()
	outcomes := make([]outcome, len(bundles))

	if o.workers == 1 {
		for i, b := range bundles {
			// Cancellable between companies.
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			outcomes[i] = o.one(now, b)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.workers)
		for i, b := range bundles {
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				outcomes[i] = o.one(now, b)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return assemble(outcomes), nil
}

// one runs the pipeline for a single company. Explanatory impact rankings
// stay off in batch mode; the three reasons are always present.
func (o *Orchestrator) one(now time.Time, b adapter.Bundle) outcome {
	skip := func(err error) outcome {
		zap.L().Warn("batch: company skipped",
			zap.String("company_id", b.Company.ID),
			zap.Error(err),
		)
		return outcome{skipped: &model.SkippedItem{
			CompanyID:   b.Company.ID,
			CompanyName: b.Company.Name,
			Error:       err.Error(),
		}}
	}

	data, _, err := adapter.Adapt(b)
	if err != nil {
		return skip(err)
	}
	row := feature.Extract(now, data).Row(data.Company.ID, data.Company.Name)
	pred, err := o.predictor.Predict(row, false)
	if err != nil {
		return skip(err)
	}
	return outcome{pred: pred}
}

// assemble sorts predictions by probability descending (ties keep input
// order) and computes the summary buckets.
func assemble(outcomes []outcome) *model.Report {
	r := &model.Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}

	for _, out := range outcomes {
		switch {
		case out.pred != nil:
			r.Predictions = append(r.Predictions, *out.pred)
		case out.skipped != nil:
			r.Skipped = append(r.Skipped, *out.skipped)
		}
	}

	sort.SliceStable(r.Predictions, func(i, j int) bool {
		return r.Predictions[i].Probability > r.Predictions[j].Probability
	})

	var sum float64
	for _, p := range r.Predictions {
		sum += p.Probability
		switch {
		case p.Probability < 40:
			r.Summary.LowBucket++
		case p.Probability < 70:
			r.Summary.MidBucket++
		default:
			r.Summary.HighBucket++
		}
	}
	r.Summary.Total = len(r.Predictions)
	if r.Summary.Total > 0 {
		r.Summary.MeanProbability = round2(sum / float64(r.Summary.Total))
		r.ModelID = r.Predictions[0].ModelID
	}

	top := len(r.Predictions)
	if top > 10 {
		top = 10
	}
	r.TopCandidates = append([]model.Prediction(nil), r.Predictions[:top]...)

	return r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
