package tree

import (
	"math"

	"github.com/sells-group/hiring-radar/internal/model"
)

// GBTParams configure gradient boosting.
type GBTParams struct {
	Trees        int
	MaxDepth     int
	MinLeaf      int
	LearningRate float64
}

// DefaultGBTParams returns the parameters the baseline model is trained
// with. They participate in the model artifact, not in the input contract.
func DefaultGBTParams() GBTParams {
	return GBTParams{
		Trees:        100,
		MaxDepth:     3,
		MinLeaf:      5,
		LearningRate: 0.1,
	}
}

// GBT is a gradient-boosted tree classifier for binary targets with
// logistic loss. The raw score is Base plus the shrunken sum of tree
// outputs; the probability is its sigmoid.
type GBT struct {
	Trees        []Tree
	Base         float64
	LearningRate float64
	NFeatures    int
}

// TrainGBT fits the ensemble. Training is deterministic: no sampling is
// involved, every tree sees the full data.
func TrainGBT(X [][]float64, y []float64, p GBTParams) *GBT {
	n := len(X)
	var pos float64
	for _, v := range y {
		pos += v
	}
	prior := clampProb(pos / float64(n))

	m := &GBT{
		Base:         math.Log(prior / (1 - prior)),
		LearningRate: p.LearningRate,
		NFeatures:    len(X[0]),
	}

	idx := make([]int, n)
	score := make([]float64, n)
	residual := make([]float64, n)
	for i := range idx {
		idx[i] = i
		score[i] = m.Base
	}

	fp := fitParams{maxDepth: p.MaxDepth, minLeaf: p.MinLeaf}
	for round := 0; round < p.Trees; round++ {
		for i := range residual {
			residual[i] = y[i] - sigmoid(score[i])
		}
		t := fitRegression(X, residual, idx, fp)
		for i := range score {
			score[i] += p.LearningRate * t.Predict(X[i])
		}
		m.Trees = append(m.Trees, *t)
	}
	return m
}

// RawScore returns the additive log-odds score for one sample.
func (m *GBT) RawScore(x []float64) float64 {
	s := m.Base
	for i := range m.Trees {
		s += m.LearningRate * m.Trees[i].Predict(x)
	}
	return s
}

// PredictProba returns P(label=1) for one sample.
func (m *GBT) PredictProba(x []float64) float64 {
	return sigmoid(m.RawScore(x))
}

// Contributions returns one signed value per feature: the sample's share of
// the log-odds score attributed by tree-path decomposition. The values plus
// the per-tree root means sum exactly to RawScore minus Base.
func (m *GBT) Contributions(x []float64) []float64 {
	out := make([]float64, m.NFeatures)
	scaled := make([]float64, m.NFeatures)
	for i := range m.Trees {
		m.Trees[i].AddContributions(x, out)
	}
	for f, v := range out {
		scaled[f] = m.LearningRate * v
	}
	return scaled
}

// Kind identifies the model family.
func (m *GBT) Kind() model.ModelKind { return model.KindGBT }

// NumFeatures returns the input width the model was trained on.
func (m *GBT) NumFeatures() int { return m.NFeatures }

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func clampProb(p float64) float64 {
	return math.Min(math.Max(p, 1e-6), 1-1e-6)
}
