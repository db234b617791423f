package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hiring-radar/internal/feature"
	"github.com/sells-group/hiring-radar/internal/model"
)

func TestGenerate_Deterministic(t *testing.T) {
	cfg := Config{Samples: 500, Seed: 42}
	x1, y1 := Generate(cfg)
	x2, y2 := Generate(cfg)

	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	x1, _ := Generate(Config{Samples: 100, Seed: 1})
	x2, _ := Generate(Config{Samples: 100, Seed: 2})
	assert.NotEqual(t, x1, x2)
}

func TestGenerate_PositiveRate(t *testing.T) {
	_, y := Generate(Config{Samples: 5000, Seed: 42})
	var pos int
	for _, label := range y {
		pos += label
	}
	rate := float64(pos) / float64(len(y))
	assert.InDelta(t, PositiveRate, rate, 0.03)
}

func TestGenerate_ShapeAndFiniteness(t *testing.T) {
	X, y := Generate(Config{Samples: 200, Seed: 7})
	require.Len(t, X, 200)
	require.Len(t, y, 200)
	for i, v := range X {
		assert.True(t, v.Finite(), "row %d", i)
		assert.Contains(t, []int{0, 1}, y[i])
	}
}

// Positives must over-represent the hiring signals the mixtures encode.
func TestGenerate_LabelConditionalSkew(t *testing.T) {
	X, y := Generate(Config{Samples: 5000, Seed: 42})

	var posRecency, negRecency, posChurn, negChurn, posVelocity, negVelocity float64
	var pos, neg int
	for i, v := range X {
		if y[i] == 1 {
			pos++
			posRecency += v.FundingRecency
			posChurn += v.TechChurn
			posVelocity += v.JobPostVelocity
		} else {
			neg++
			negRecency += v.FundingRecency
			negChurn += v.TechChurn
			negVelocity += v.JobPostVelocity
		}
	}
	require.Positive(t, pos)
	require.Positive(t, neg)

	assert.Less(t, posRecency/float64(pos), negRecency/float64(neg))
	assert.Greater(t, posChurn/float64(pos), negChurn/float64(neg))
	assert.Greater(t, posVelocity/float64(pos), negVelocity/float64(neg))
}

func TestGenerate_BinaryConsistency(t *testing.T) {
	X, _ := Generate(Config{Samples: 1000, Seed: 3})
	for _, v := range X {
		assert.Equal(t, v.FundingRecency < feature.RecentFundingDays, v.IsRecentFunding == 1)
		assert.Equal(t, v.TechChurn > feature.HighChurnPct, v.HasHighChurn == 1)
		assert.Equal(t, v.JobPostVelocity > feature.VelocitySurgeRatio, v.HasVelocitySurge == 1)
		assert.Equal(t, v.SeniorDepartures >= feature.SeniorExodusCount, v.HasSeniorExodus == 1)
	}
}

func TestGenerate_ValidLookupValues(t *testing.T) {
	X, _ := Generate(Config{Samples: 500, Seed: 9})
	factors := map[float64]bool{}
	for _, f := range feature.RegionFactors {
		factors[f] = true
	}
	weights := map[float64]bool{}
	for _, w := range feature.StageWeights {
		weights[w] = true
	}
	for _, v := range X {
		assert.True(t, factors[v.RegionFactor], "region factor %v", v.RegionFactor)
		assert.True(t, weights[v.FundingStageWeight], "stage weight %v", v.FundingStageWeight)
	}
}

func TestGenerate_NoFundingHasConsistentSentinels(t *testing.T) {
	X, _ := Generate(Config{Samples: 1000, Seed: 5})
	var sentinels int
	for _, v := range X {
		if v.FundingRecency == feature.MissingFundingRecency {
			sentinels++
			assert.Equal(t, 0.0, v.LastFundingAmount)
			assert.Equal(t, 0.0, v.TotalFunding)
			assert.Equal(t, feature.StageWeights[model.RoundUnknown], v.FundingStageWeight)
		}
	}
	assert.Positive(t, sentinels)
}
