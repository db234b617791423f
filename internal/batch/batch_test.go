package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hiring-radar/internal/adapter"
	"github.com/sells-group/hiring-radar/internal/model"
	"github.com/sells-group/hiring-radar/internal/predict"
	"github.com/sells-group/hiring-radar/internal/synth"
	"github.com/sells-group/hiring-radar/internal/train"
	"github.com/sells-group/hiring-radar/internal/tree"
)

func testPredictor(t *testing.T) *predict.Predictor {
	t.Helper()
	X, y := synth.Generate(synth.Config{Samples: 600, Seed: 42})
	p := train.DefaultParams(model.KindGBT)
	p.GBT = tree.GBTParams{Trees: 15, MaxDepth: 3, MinLeaf: 5, LearningRate: 0.1}
	a, err := train.Train(X, y, p)
	require.NoError(t, err)
	return predict.NewFromArtifact(a, "")
}

func bundle(id string, teamSize int) adapter.Bundle {
	recent := time.Now().AddDate(0, 0, -40).Format("2006-01-02")
	return adapter.Bundle{
		Company: adapter.CompanyRecord{
			ID:       id,
			Name:     "Company " + id,
			Region:   "us",
			TeamSize: teamSize,
		},
		Rounds: []adapter.FundingRecord{
			{RoundType: "series_b", Amount: 45.0, Date: recent},
		},
		Postings: []adapter.PostingRecord{
			{Title: "Backend Engineer", ScrapedAt: time.Now().Format("2006-01-02")},
		},
	}
}

func bundles(n int) []adapter.Bundle {
	out := make([]adapter.Bundle, n)
	for i := range out {
		out[i] = bundle(fmt.Sprintf("c-%03d", i), 20+i*5)
	}
	return out
}

func TestRun_ReportShape(t *testing.T) {
	o := New(testPredictor(t), 1)
	report, err := o.Run(context.Background(), bundles(15))
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.NotEmpty(t, report.ModelID)
	assert.Len(t, report.Predictions, 15)
	assert.Empty(t, report.Skipped)
	assert.Len(t, report.TopCandidates, 10)
	assert.Equal(t, 15, report.Summary.Total)
	assert.Equal(t, 15,
		report.Summary.LowBucket+report.Summary.MidBucket+report.Summary.HighBucket)

	for i := 1; i < len(report.Predictions); i++ {
		assert.GreaterOrEqual(t,
			report.Predictions[i-1].Probability, report.Predictions[i].Probability)
	}
	assert.Equal(t, report.Predictions[:10], report.TopCandidates)
}

func TestRun_MeanProbability(t *testing.T) {
	o := New(testPredictor(t), 1)
	report, err := o.Run(context.Background(), bundles(8))
	require.NoError(t, err)

	var sum float64
	for _, p := range report.Predictions {
		sum += p.Probability
	}
	assert.InDelta(t, sum/8, report.Summary.MeanProbability, 0.005)
}

func TestRun_SkipsInvalidBundle(t *testing.T) {
	o := New(testPredictor(t), 1)

	bad := bundle("", 20)
	bad.Company.Name = "Nameless"
	in := []adapter.Bundle{bundle("c-ok", 30), bad}

	report, err := o.Run(context.Background(), in)
	require.NoError(t, err)
	assert.Len(t, report.Predictions, 1)
	require.Len(t, report.Skipped, 1)
	assert.Contains(t, report.Skipped[0].Error, "company_id")
}

func TestRun_BatchModeOmitsImpactRanking(t *testing.T) {
	o := New(testPredictor(t), 1)
	report, err := o.Run(context.Background(), bundles(3))
	require.NoError(t, err)
	for _, p := range report.Predictions {
		assert.Empty(t, p.Impacts)
		assert.Len(t, p.Reasons, 3)
	}
}

func TestRun_Cancelled(t *testing.T) {
	o := New(testPredictor(t), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Run(ctx, bundles(5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_WorkersMatchSequential(t *testing.T) {
	p := testPredictor(t)
	in := bundles(20)

	seq, err := New(p, 1).Run(context.Background(), in)
	require.NoError(t, err)
	par, err := New(p, 4).Run(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, par.Predictions, len(seq.Predictions))
	for i := range seq.Predictions {
		assert.Equal(t, seq.Predictions[i].CompanyID, par.Predictions[i].CompanyID)
		assert.Equal(t, seq.Predictions[i].Probability, par.Predictions[i].Probability)
	}
	assert.Equal(t, seq.Summary, par.Summary)
}

func TestRun_EmptyInput(t *testing.T) {
	o := New(testPredictor(t), 1)
	report, err := o.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Summary.Total)
	assert.Empty(t, report.TopCandidates)
	assert.Empty(t, report.ModelID)
}

func TestWriteJSON(t *testing.T) {
	o := New(testPredictor(t), 1)
	report, err := o.Run(context.Background(), bundles(3))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, WriteJSON(report, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var back model.Report
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, report.RunID, back.RunID)
	assert.Len(t, back.Predictions, 3)
}

func TestFormatReport(t *testing.T) {
	o := New(testPredictor(t), 1)

	in := bundles(4)
	bad := bundle("", 10)
	bad.Company.Name = "Broken Co"
	in = append(in, bad)

	report, err := o.Run(context.Background(), in)
	require.NoError(t, err)

	text := FormatReport(report)
	assert.Contains(t, text, report.RunID)
	assert.Contains(t, text, "Company c-000")
	assert.Contains(t, text, "Skipped")
	for _, p := range report.TopCandidates {
		assert.Contains(t, text, p.CompanyName)
	}
	assert.Greater(t, strings.Count(text, "\n"), 10)
}
