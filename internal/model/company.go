// Package model defines the typed domain shapes shared across the
// prediction pipeline: companies, funding rounds, job postings, personnel
// movements, feature vectors, predictions and model artifacts.
package model

import "time"

// Region is a coarse geographic market for a company.
type Region string

const (
	RegionUS      Region = "us"
	RegionEU      Region = "eu"
	RegionSA      Region = "sa"
	RegionAP      Region = "ap"
	RegionUnknown Region = "unknown"
)

// ParseRegion maps an arbitrary string to a known Region. Anything not in
// the table maps to RegionUnknown.
func ParseRegion(s string) Region {
	switch Region(s) {
	case RegionUS, RegionEU, RegionSA, RegionAP:
		return Region(s)
	default:
		return RegionUnknown
	}
}

// RoundType identifies a funding round stage.
type RoundType string

const (
	RoundPreSeed RoundType = "pre-seed"
	RoundSeed    RoundType = "seed"
	RoundSeriesA RoundType = "series-a"
	RoundSeriesB RoundType = "series-b"
	RoundSeriesC RoundType = "series-c"
	RoundSeriesD RoundType = "series-d"
	RoundSeriesE RoundType = "series-e+"
	RoundUnknown RoundType = "unknown"
)

// ParseRoundType maps an arbitrary string to a known RoundType. Unknown
// stages fold into RoundUnknown rather than failing.
func ParseRoundType(s string) RoundType {
	switch RoundType(s) {
	case RoundPreSeed, RoundSeed, RoundSeriesA, RoundSeriesB, RoundSeriesC, RoundSeriesD, RoundSeriesE:
		return RoundType(s)
	default:
		return RoundUnknown
	}
}

// GrowthStage buckets a funding stage into a company maturity band.
type GrowthStage string

const (
	StageEarly   GrowthStage = "early"
	StageGrowth  GrowthStage = "growth"
	StageScale   GrowthStage = "scale"
	StageMature  GrowthStage = "mature"
	StageUnknown GrowthStage = "unknown"
)

// Stage returns the growth stage for a round type.
func (r RoundType) Stage() GrowthStage {
	switch r {
	case RoundPreSeed, RoundSeed:
		return StageEarly
	case RoundSeriesA, RoundSeriesB:
		return StageGrowth
	case RoundSeriesC, RoundSeriesD:
		return StageScale
	case RoundSeriesE:
		return StageMature
	default:
		return StageUnknown
	}
}

// Seniority is the level of a departing employee.
type Seniority string

const (
	SeniorityJunior    Seniority = "junior"
	SeniorityMid       Seniority = "mid"
	SenioritySenior    Seniority = "senior"
	SeniorityStaff     Seniority = "staff"
	SeniorityPrincipal Seniority = "principal"
	SeniorityLead      Seniority = "lead"
)

// IsSenior reports whether the level counts toward senior departures.
func (s Seniority) IsSenior() bool {
	switch s {
	case SenioritySenior, SeniorityStaff, SeniorityPrincipal, SeniorityLead:
		return true
	default:
		return false
	}
}

// Company is the normalized headline record for one company. Created by the
// adapter from external records; read-only downstream.
type Company struct {
	ID                   string     `json:"company_id"`
	Name                 string     `json:"name"`
	Region               Region     `json:"region"`
	TeamSize             int        `json:"team_size"`
	EngineeringHeadcount int        `json:"engineering_headcount,omitempty"` // 0 = unknown, falls back to TeamSize
	Founded              *time.Time `json:"founded_date,omitempty"`
}

// Headcount returns the engineering headcount when supplied, otherwise the
// overall team size.
func (c Company) Headcount() int {
	if c.EngineeringHeadcount > 0 {
		return c.EngineeringHeadcount
	}
	return c.TeamSize
}

// FundingRound is one immutable funding event.
type FundingRound struct {
	Type       RoundType  `json:"round_type"`
	AmountUSDM float64    `json:"amount_usd_millions"`
	Date       *time.Time `json:"date,omitempty"`
}

// JobPosting is the slice of a scraped posting the predictor reads.
type JobPosting struct {
	Title     string     `json:"title"`
	ScrapedAt *time.Time `json:"scraped_at,omitempty"`
}

// Movement records one personnel departure.
type Movement struct {
	Seniority  Seniority  `json:"seniority"`
	DepartedAt *time.Time `json:"departure_date,omitempty"`
}

// CompanyData bundles everything the feature extractor consumes for one
// company. A nil Movements slice means no personnel feed was available,
// which is distinct from an observed empty month.
type CompanyData struct {
	Company   Company        `json:"company"`
	Rounds    []FundingRound `json:"rounds"`
	Postings  []JobPosting   `json:"postings"`
	Movements []Movement     `json:"movements"`
}
