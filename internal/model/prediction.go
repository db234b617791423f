package model

import "time"

// ConfidenceBucket is a coarse label over the distance of the probability
// from the 50% decision boundary. Both tails are treated symmetrically.
type ConfidenceBucket string

const (
	ConfidenceVeryHigh ConfidenceBucket = "Very High"
	ConfidenceHigh     ConfidenceBucket = "High"
	ConfidenceMedium   ConfidenceBucket = "Medium"
	ConfidenceLow      ConfidenceBucket = "Low"
)

// FeatureImpact is one entry of the per-feature attribution ranking.
type FeatureImpact struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
	Impact  float64 `json:"impact"`
}

// Prediction is the per-company output document.
type Prediction struct {
	CompanyID   string             `json:"company_id"`
	CompanyName string             `json:"company_name"`
	Probability float64            `json:"probability"` // 0-100, two decimals
	Class       int                `json:"class"`       // 1 iff probability >= 50
	Label       string             `json:"label"`
	Confidence  ConfidenceBucket   `json:"confidence"`
	Reasons     []string           `json:"reasons"` // always exactly three
	Features    map[string]float64 `json:"features"`
	Impacts     []FeatureImpact    `json:"impact_ranking,omitempty"` // top five by |impact|
	ModelID     string             `json:"model_id"`
	ModelKind   ModelKind          `json:"model_kind"`
	Horizon     string             `json:"prediction_horizon"`
	PredictedAt time.Time          `json:"predicted_at"`
}

// ClassLabel returns the human label for a class.
func ClassLabel(class int) string {
	if class == 1 {
		return "likely to hire"
	}
	return "unlikely to hire"
}

// ReportSummary aggregates a batch.
type ReportSummary struct {
	Total           int     `json:"total"`
	MeanProbability float64 `json:"mean_probability"`
	LowBucket       int     `json:"low_bucket"`  // probability in [0, 40)
	MidBucket       int     `json:"mid_bucket"`  // probability in [40, 70)
	HighBucket      int     `json:"high_bucket"` // probability in [70, 100]
}

// SkippedItem records a company the batch could not score.
type SkippedItem struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name,omitempty"`
	Error       string `json:"error"`
}

// Report is the batch output document: every prediction sorted by
// probability descending, the top ten retained separately, and per-skipped
// item errors in the metadata.
type Report struct {
	RunID         string        `json:"run_id"`
	GeneratedAt   time.Time     `json:"generated_at"`
	ModelID       string        `json:"model_id,omitempty"`
	Summary       ReportSummary `json:"summary"`
	TopCandidates []Prediction  `json:"top_candidates"`
	Predictions   []Prediction  `json:"predictions"`
	Skipped       []SkippedItem `json:"skipped,omitempty"`
}
