// Package explain converts a feature vector and probability into exactly
// three human-readable reasons. Three independent slots each walk an
// ordered rule list; the first match wins and every slot has a fallback, so
// the output is never shorter than three.
package explain

import (
	"fmt"
	"math"

	"github.com/sells-group/hiring-radar/internal/feature"
	"github.com/sells-group/hiring-radar/internal/model"
)

// ReasonCount is the fixed number of reasons on every prediction.
const ReasonCount = 3

// Reasons derives the three reason strings for a prediction. Pure function:
// identical inputs always produce identical strings.
func Reasons(v model.FeatureVector, probability float64) []string {
	return []string{
		fundingChurnReason(v),
		velocityReason(v),
		regionStageReason(v),
	}
}

// Slot 1: funding crossed with churn.
func fundingChurnReason(v model.FeatureVector) string {
	switch {
	case v.FundingRecency < 90 && v.SeniorDepartures >= 3:
		return fmt.Sprintf("Fresh funding %.0f days ago combined with %.0f senior departures in the last 30 days signals urgent backfill hiring", v.FundingRecency, v.SeniorDepartures)
	case v.FundingRecency < 180 && v.TechChurn > 10:
		return fmt.Sprintf("Funding within the last %.0f days and %.1f%% monthly tech churn point to replacement hiring", v.FundingRecency, v.TechChurn)
	case v.FundingRecency < 90:
		return fmt.Sprintf("A funding round closed %.0f days ago typically precedes an engineering hiring wave", v.FundingRecency)
	case v.SeniorDepartures >= 3:
		return fmt.Sprintf("%.0f senior departures within 30 days create backfill demand for senior roles", v.SeniorDepartures)
	default:
		return fmt.Sprintf("Funding recency of %.0f days offers no strong hiring signal on its own", v.FundingRecency)
	}
}

// Slot 2: posting velocity crossed with the technical share.
func velocityReason(v model.FeatureVector) string {
	switch {
	case v.JobPostVelocity > 2.0 && v.TechRolesRatio > 60:
		return fmt.Sprintf("Job postings grew %.1fx month over month with %.0f%% technical roles", v.JobPostVelocity, v.TechRolesRatio)
	case v.JobPostVelocity > 1.5:
		return fmt.Sprintf("Posting velocity of %.1fx month over month shows an accelerating pipeline", v.JobPostVelocity)
	case v.CurrentMonthPosts > 5:
		return fmt.Sprintf("%.0f postings this month keep hiring activity clearly above baseline", v.CurrentMonthPosts)
	default:
		return fmt.Sprintf("Posting velocity of %.1fx indicates little change in hiring volume", v.JobPostVelocity)
	}
}

// Slot 3: region crossed with growth stage. Region and stage are recovered
// from region_factor and funding_stage_weight; both lookup tables are
// invertible, which keeps this a pure function of the feature vector.
func regionStageReason(v model.FeatureVector) string {
	region := regionFromFactor(v.RegionFactor)
	switch {
	case region == model.RegionSA && v.FundingRecency < 180:
		return fmt.Sprintf("Recently funded company in the South American market (regional factor %.2f), currently the strongest hiring climate", v.RegionFactor)
	case region == model.RegionUS && growthOrScale(v.FundingStageWeight):
		return fmt.Sprintf("US company at growth-to-scale stage benefits from a %.2f regional hiring factor", v.RegionFactor)
	case v.RegionFactor < 0.9:
		return fmt.Sprintf("Regional hiring factor of %.2f dampens the outlook", v.RegionFactor)
	default:
		return fmt.Sprintf("Regional hiring factor of %.2f is close to neutral", v.RegionFactor)
	}
}

// regionFromFactor inverts the frozen region-factor table.
func regionFromFactor(f float64) model.Region {
	for region, factor := range feature.RegionFactors {
		if region != model.RegionUnknown && approx(f, factor) {
			return region
		}
	}
	return model.RegionUnknown
}

// growthOrScale reports whether the stage weight belongs to series A-D.
func growthOrScale(w float64) bool {
	for _, stage := range []model.RoundType{
		model.RoundSeriesA, model.RoundSeriesB, model.RoundSeriesC, model.RoundSeriesD,
	} {
		if approx(w, feature.StageWeights[stage]) {
			return true
		}
	}
	return false
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
