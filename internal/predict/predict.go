// Package predict loads a serialized model artifact and scores feature
// rows against it, enforcing the manifest's feature-name contract.
package predict

import (
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/hiring-radar/internal/explain"
	"github.com/sells-group/hiring-radar/internal/model"
	"github.com/sells-group/hiring-radar/internal/train"
)

// DefaultHorizon labels every prediction with the forward window the
// classifier is trained against.
const DefaultHorizon = "3 months"

// Predictor caches one artifact loaded lazily on first use. The cache is
// idempotent: concurrent first calls converge on the same artifact.
type Predictor struct {
	path    string
	horizon string

	mu       sync.Mutex
	artifact *train.Artifact
}

// New creates a predictor for the artifact at path. Nothing is loaded
// until the first prediction.
func New(path, horizon string) *Predictor {
	if horizon == "" {
		horizon = DefaultHorizon
	}
	return &Predictor{path: path, horizon: horizon}
}

// NewFromArtifact wraps an already-loaded artifact, bypassing the
// filesystem. Used right after training and in tests.
func NewFromArtifact(a *train.Artifact, horizon string) *Predictor {
	p := New("", horizon)
	p.artifact = a
	return p
}

func (p *Predictor) load() (*train.Artifact, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.artifact != nil {
		return p.artifact, nil
	}
	a, err := train.Load(p.path)
	if err != nil {
		return nil, err
	}
	zap.L().Info("predict: model loaded",
		zap.String("path", p.path),
		zap.String("model_id", a.Manifest.ModelID),
		zap.String("kind", string(a.Manifest.Kind)),
	)
	p.artifact = a
	return a, nil
}

// Predict scores one feature row. With explain enabled the prediction
// carries the top-five per-feature impact ranking; the three reasons are
// always attached.
func (p *Predictor) Predict(row *model.FeatureRow, explainImpacts bool) (*model.Prediction, error) {
	a, err := p.load()
	if err != nil {
		return nil, err
	}
	if err := checkContract(row, a.Manifest.FeatureNames); err != nil {
		return nil, err
	}

	prob := round2(a.Model.PredictProba(row.Values) * 100)
	class := 0
	if prob >= 50 {
		class = 1
	}

	vec := model.VectorFromValues(row.Values)

	pred := &model.Prediction{
		CompanyID:   row.CompanyID,
		CompanyName: row.CompanyName,
		Probability: prob,
		Class:       class,
		Label:       model.ClassLabel(class),
		Confidence:  Confidence(prob),
		Reasons:     explain.Reasons(vec, prob),
		Features:    vec.Map(),
		ModelID:     a.Manifest.ModelID,
		ModelKind:   a.Manifest.Kind,
		Horizon:     p.horizon,
		PredictedAt: time.Now().UTC(),
	}

	if explainImpacts {
		pred.Impacts = impactRanking(a, row)
	}
	return pred, nil
}

// PredictBatch scores rows and returns them sorted by probability
// descending, ties broken by input order. A failing row is skipped and
// reported; the batch itself never fails.
func (p *Predictor) PredictBatch(rows []*model.FeatureRow, explainImpacts bool) ([]model.Prediction, []model.SkippedItem) {
	preds := make([]model.Prediction, 0, len(rows))
	var skipped []model.SkippedItem
	for _, row := range rows {
		pred, err := p.Predict(row, explainImpacts)
		if err != nil {
			zap.L().Warn("predict: row skipped",
				zap.String("company_id", row.CompanyID),
				zap.Error(err),
			)
			skipped = append(skipped, model.SkippedItem{
				CompanyID:   row.CompanyID,
				CompanyName: row.CompanyName,
				Error:       err.Error(),
			})
			continue
		}
		preds = append(preds, *pred)
	}
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Probability > preds[j].Probability
	})
	return preds, skipped
}

// Confidence buckets a probability by its distance from the 50% boundary.
func Confidence(prob float64) model.ConfidenceBucket {
	switch d := math.Abs(prob - 50); {
	case d >= 30:
		return model.ConfidenceVeryHigh
	case d >= 15:
		return model.ConfidenceHigh
	case d >= 5:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// checkContract verifies the row presents every manifest field, in the
// manifest's order, with finite values.
func checkContract(row *model.FeatureRow, manifest []string) error {
	if len(row.Names) != len(manifest) {
		return &model.FeatureContractError{
			Reason:   "field count mismatch",
			Expected: manifest,
			Got:      row.Names,
		}
	}
	for i, name := range manifest {
		if row.Names[i] != name {
			return &model.FeatureContractError{
				Reason:   "field " + name + " missing or out of order",
				Expected: manifest,
				Got:      row.Names,
			}
		}
	}
	if len(row.Values) != len(manifest) {
		return &model.FeatureContractError{Reason: "value count mismatch", Expected: manifest, Got: row.Names}
	}
	for i, v := range row.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &model.FeatureContractError{Reason: "non-finite value for " + manifest[i], Expected: manifest, Got: row.Names}
		}
	}
	return nil
}

// impactRanking returns the top five features by absolute attribution.
// Model kinds without attributions yield an empty ranking, never a
// synthesized one.
func impactRanking(a *train.Artifact, row *model.FeatureRow) []model.FeatureImpact {
	contribs := a.Model.Contributions(row.Values)
	if contribs == nil {
		return nil
	}
	impacts := make([]model.FeatureImpact, len(contribs))
	for i, c := range contribs {
		impacts[i] = model.FeatureImpact{
			Feature: a.Manifest.FeatureNames[i],
			Value:   row.Values[i],
			Impact:  c,
		}
	}
	sort.SliceStable(impacts, func(i, j int) bool {
		return math.Abs(impacts[i].Impact) > math.Abs(impacts[j].Impact)
	})
	if len(impacts) > 5 {
		impacts = impacts[:5]
	}
	return impacts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
