// Package synth generates labeled feature rows whose joint distribution
// reflects the business priors: positives over-represent recent funding,
// elevated churn, senior exodus and posting surges. It exists to produce a
// reproducible baseline model when no historical labels are available and
// is never used at prediction time.
package synth

import (
	"math"
	"math/rand"

	"github.com/sells-group/hiring-radar/internal/feature"
	"github.com/sells-group/hiring-radar/internal/model"
)

// PositiveRate is the Bernoulli prior for the hiring label.
const PositiveRate = 0.30

// Config sets sample count and RNG seed.
type Config struct {
	Samples int
	Seed    int64
}

// Generate produces Samples labeled rows. The same seed always yields the
// same rows in the same order.
func Generate(cfg Config) ([]model.FeatureVector, []int) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	X := make([]model.FeatureVector, 0, cfg.Samples)
	y := make([]int, 0, cfg.Samples)

	for i := 0; i < cfg.Samples; i++ {
		label := 0
		if rng.Float64() < PositiveRate {
			label = 1
		}
		X = append(X, sample(rng, label == 1))
		y = append(y, label)
	}
	return X, y
}

// sample draws one feature vector conditional on the label. Dependent
// fields stay internally consistent and the binary features are recomputed
// from the final continuous values, exactly as the extractor would.
func sample(rng *rand.Rand, positive bool) model.FeatureVector {
	var v model.FeatureVector

	// Funding recency mixture, weighted toward 0-180 days for positives.
	if positive {
		v.FundingRecency = pick(rng,
			0.45, func() float64 { return uniform(rng, 0, 90) },
			0.25, func() float64 { return uniform(rng, 90, 180) },
			0.20, func() float64 { return uniform(rng, 180, 500) },
			0.10, func() float64 { return feature.MissingFundingRecency },
		)
	} else {
		v.FundingRecency = pick(rng,
			0.10, func() float64 { return uniform(rng, 0, 90) },
			0.15, func() float64 { return uniform(rng, 90, 180) },
			0.45, func() float64 { return uniform(rng, 180, 900) },
			0.30, func() float64 { return feature.MissingFundingRecency },
		)
	}
	v.FundingRecency = math.Floor(v.FundingRecency)

	hasFunding := v.FundingRecency < feature.MissingFundingRecency
	if hasFunding {
		v.LastFundingAmount = round2(math.Exp(1.5 + 1.1*rng.NormFloat64()))
		v.TotalFunding = round2(v.LastFundingAmount * uniform(rng, 1, 2.5))
		v.FundingStageWeight = stageWeight(rng, positive)
	} else {
		v.FundingStageWeight = feature.StageWeights[model.RoundUnknown]
	}

	v.TeamSize = math.Floor(uniform(rng, 5, 500))
	v.EngineeringHeadcount = math.Floor(v.TeamSize * uniform(rng, 0.2, 0.7))
	if v.TeamSize > 0 {
		v.FundingPerEmployee = v.TotalFunding / v.TeamSize
	}

	// Churn mixture weighted toward 8-25% for positives, with a slice of
	// companies carrying only the industry prior.
	if positive {
		v.TechChurn = pick(rng,
			0.60, func() float64 { return uniform(rng, 8, 25) },
			0.30, func() float64 { return uniform(rng, 2, 8) },
			0.10, func() float64 { return feature.ChurnPrior },
		)
		v.SeniorDepartures = weightedCount(rng, []float64{0.10, 0.15, 0.25, 0.25, 0.15, 0.10})
	} else {
		v.TechChurn = pick(rng,
			0.15, func() float64 { return uniform(rng, 8, 25) },
			0.55, func() float64 { return uniform(rng, 0, 8) },
			0.30, func() float64 { return feature.ChurnPrior },
		)
		v.SeniorDepartures = weightedCount(rng, []float64{0.50, 0.25, 0.12, 0.08, 0.04, 0.01})
	}

	if positive {
		v.JobPostVelocity = pick(rng,
			0.50, func() float64 { return uniform(rng, 2.0, 4.0) },
			0.30, func() float64 { return uniform(rng, 1.0, 2.0) },
			0.20, func() float64 { return uniform(rng, 0, 1.0) },
		)
		v.TechRolesRatio = uniform(rng, 40, 100)
	} else {
		v.JobPostVelocity = pick(rng,
			0.15, func() float64 { return uniform(rng, 2.0, 4.0) },
			0.30, func() float64 { return uniform(rng, 1.0, 2.0) },
			0.55, func() float64 { return uniform(rng, 0, 1.0) },
		)
		v.TechRolesRatio = uniform(rng, 0, 60)
	}
	v.CurrentMonthPosts = math.Floor(v.JobPostVelocity * uniform(rng, 1, 5))

	v.RegionFactor = regionFactor(rng)
	v.CompanyAgeDays = pick(rng,
		0.85, func() float64 { return math.Floor(uniform(rng, 200, 5000)) },
		0.15, func() float64 { return feature.DefaultCompanyAgeDays },
	)

	v.IsRecentFunding = indicator(v.FundingRecency < feature.RecentFundingDays)
	v.HasHighChurn = indicator(v.TechChurn > feature.HighChurnPct)
	v.HasVelocitySurge = indicator(v.JobPostVelocity > feature.VelocitySurgeRatio)
	v.HasSeniorExodus = indicator(v.SeniorDepartures >= feature.SeniorExodusCount)

	return v
}

func stageWeight(rng *rand.Rand, positive bool) float64 {
	early := []model.RoundType{model.RoundPreSeed, model.RoundSeed}
	growth := []model.RoundType{model.RoundSeriesA, model.RoundSeriesB, model.RoundSeriesC}
	late := []model.RoundType{model.RoundSeriesD, model.RoundSeriesE, model.RoundUnknown}

	growthShare := 0.35
	if positive {
		growthShare = 0.55
	}
	r := rng.Float64()
	var set []model.RoundType
	switch {
	case r < growthShare:
		set = growth
	case r < growthShare+0.30:
		set = early
	default:
		set = late
	}
	return feature.StageWeights[set[rng.Intn(len(set))]]
}

func regionFactor(rng *rand.Rand) float64 {
	regions := []model.Region{
		model.RegionUS, model.RegionEU, model.RegionSA,
		model.RegionAP, model.RegionUnknown,
	}
	return feature.RegionFactors[regions[rng.Intn(len(regions))]]
}

// pick selects one sampler by weight. Weights must sum to 1; the last arm
// absorbs rounding slack.
func pick(rng *rand.Rand, wf ...any) float64 {
	r := rng.Float64()
	var acc float64
	for i := 0; i < len(wf); i += 2 {
		acc += wf[i].(float64)
		if r < acc || i == len(wf)-2 {
			return wf[i+1].(func() float64)()
		}
	}
	return 0
}

func weightedCount(rng *rand.Rand, weights []float64) float64 {
	r := rng.Float64()
	var acc float64
	for i, w := range weights {
		acc += w
		if r < acc {
			return float64(i)
		}
	}
	return float64(len(weights) - 1)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
