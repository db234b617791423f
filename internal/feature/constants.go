// Package feature implements the deterministic transformation from
// normalized company records into the fixed 18-field feature vector.
package feature

import "github.com/sells-group/hiring-radar/internal/model"

// The tables below are frozen constants that participate in the model
// version: changing any of them requires retraining and a new artifact
// identity.

// RegionFactors maps a region to its macro hiring-momentum scalar.
// Values stay inside [0.5, 2.0]; unknown regions get the neutral 1.0.
var RegionFactors = map[model.Region]float64{
	model.RegionUS:      1.15,
	model.RegionEU:      0.85,
	model.RegionSA:      1.25,
	model.RegionAP:      1.10,
	model.RegionUnknown: 1.0,
}

// StageWeights maps the latest round type to its funding-stage weight.
var StageWeights = map[model.RoundType]float64{
	model.RoundPreSeed: 0.3,
	model.RoundSeed:    0.5,
	model.RoundSeriesA: 0.8,
	model.RoundSeriesB: 0.9,
	model.RoundSeriesC: 0.85,
	model.RoundSeriesD: 0.75,
	model.RoundSeriesE: 0.6,
	model.RoundUnknown: 0.4,
}

// TechKeywords classify a posting title as technical. Multi-word entries
// match as case-insensitive substrings; single-word entries match whole
// tokens so "ai" does not light up inside "maintain".
var TechKeywords = []string{
	"engineer", "developer", "software", "devops", "architect",
	"data scientist", "machine learning", "ml", "ai",
	"backend", "frontend", "full stack", "fullstack", "sre", "platform",
}

const (
	// MissingFundingRecency is the sentinel for companies without rounds.
	MissingFundingRecency = 999
	// DefaultCompanyAgeDays substitutes an unknown founding date (~5y).
	DefaultCompanyAgeDays = 1825
	// ChurnPrior is the industry churn rate assumed when no personnel
	// feed exists.
	ChurnPrior = 1.1
	// SurgeFromZero is the velocity sentinel when last month had zero
	// postings and this month has some.
	SurgeFromZero = 2.0

	// Thresholds behind the derived binary features.
	RecentFundingDays  = 180
	HighChurnPct       = 15.0
	VelocitySurgeRatio = 2.0
	SeniorExodusCount  = 3

	// ChurnWindowDays is the trailing window for departures.
	ChurnWindowDays = 30
)
