package model

import "math"

// FeatureNames is the canonical ordered list of the 18 model features. The
// order is part of the contract with serialized models: a trained artifact
// records this list in its manifest and the predictor refuses input that
// does not match it. Changing names or order is a new model version.
var FeatureNames = []string{
	"funding_recency",
	"last_funding_amount",
	"tech_churn",
	"senior_departures",
	"job_post_velocity",
	"tech_roles_ratio",
	"region_factor",
	"company_age_days",
	"total_funding",
	"team_size",
	"engineering_headcount",
	"current_month_posts",
	"funding_stage_weight",
	"funding_per_employee",
	"is_recent_funding",
	"has_high_churn",
	"has_velocity_surge",
	"has_senior_exodus",
}

// FeatureCount is the fixed width of a feature vector.
const FeatureCount = 18

// FeatureVector is the fixed-shape numeric input to the classifier.
// Immutable once produced by the extractor.
type FeatureVector struct {
	FundingRecency       float64 `json:"funding_recency"`
	LastFundingAmount    float64 `json:"last_funding_amount"`
	TechChurn            float64 `json:"tech_churn"`
	SeniorDepartures     float64 `json:"senior_departures"`
	JobPostVelocity      float64 `json:"job_post_velocity"`
	TechRolesRatio       float64 `json:"tech_roles_ratio"`
	RegionFactor         float64 `json:"region_factor"`
	CompanyAgeDays       float64 `json:"company_age_days"`
	TotalFunding         float64 `json:"total_funding"`
	TeamSize             float64 `json:"team_size"`
	EngineeringHeadcount float64 `json:"engineering_headcount"`
	CurrentMonthPosts    float64 `json:"current_month_posts"`
	FundingStageWeight   float64 `json:"funding_stage_weight"`
	FundingPerEmployee   float64 `json:"funding_per_employee"`
	IsRecentFunding      float64 `json:"is_recent_funding"`
	HasHighChurn         float64 `json:"has_high_churn"`
	HasVelocitySurge     float64 `json:"has_velocity_surge"`
	HasSeniorExodus      float64 `json:"has_senior_exodus"`
}

// Values returns the vector in canonical order.
func (f FeatureVector) Values() []float64 {
	return []float64{
		f.FundingRecency,
		f.LastFundingAmount,
		f.TechChurn,
		f.SeniorDepartures,
		f.JobPostVelocity,
		f.TechRolesRatio,
		f.RegionFactor,
		f.CompanyAgeDays,
		f.TotalFunding,
		f.TeamSize,
		f.EngineeringHeadcount,
		f.CurrentMonthPosts,
		f.FundingStageWeight,
		f.FundingPerEmployee,
		f.IsRecentFunding,
		f.HasHighChurn,
		f.HasVelocitySurge,
		f.HasSeniorExodus,
	}
}

// Finite reports whether every field holds a finite value.
func (f FeatureVector) Finite() bool {
	for _, v := range f.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Map returns a name-to-value view in canonical order semantics.
func (f FeatureVector) Map() map[string]float64 {
	vals := f.Values()
	m := make(map[string]float64, FeatureCount)
	for i, n := range FeatureNames {
		m[n] = vals[i]
	}
	return m
}

// FeatureRow is the named representation handed to the predictor. Names
// travel with the values so the manifest check can detect permuted,
// shortened or renamed input instead of silently mis-scoring it.
type FeatureRow struct {
	CompanyID   string
	CompanyName string
	Names       []string
	Values      []float64
}

// Row wraps the vector into a FeatureRow for the given company identity.
func (f FeatureVector) Row(companyID, companyName string) *FeatureRow {
	return &FeatureRow{
		CompanyID:   companyID,
		CompanyName: companyName,
		Names:       append([]string(nil), FeatureNames...),
		Values:      f.Values(),
	}
}

// VectorFromValues rebuilds a FeatureVector from values in canonical order.
// The caller must have validated length against FeatureCount.
func VectorFromValues(vals []float64) FeatureVector {
	return FeatureVector{
		FundingRecency:       vals[0],
		LastFundingAmount:    vals[1],
		TechChurn:            vals[2],
		SeniorDepartures:     vals[3],
		JobPostVelocity:      vals[4],
		TechRolesRatio:       vals[5],
		RegionFactor:         vals[6],
		CompanyAgeDays:       vals[7],
		TotalFunding:         vals[8],
		TeamSize:             vals[9],
		EngineeringHeadcount: vals[10],
		CurrentMonthPosts:    vals[11],
		FundingStageWeight:   vals[12],
		FundingPerEmployee:   vals[13],
		IsRecentFunding:      vals[14],
		HasHighChurn:         vals[15],
		HasVelocitySurge:     vals[16],
		HasSeniorExodus:      vals[17],
	}
}
