package tree

import (
	"math"
	"math/rand"

	"github.com/sells-group/hiring-radar/internal/model"
)

// ForestParams configure the bagged decision-forest fallback.
type ForestParams struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     int64
}

// DefaultForestParams returns the fallback training parameters.
func DefaultForestParams() ForestParams {
	return ForestParams{
		Trees:    50,
		MaxDepth: 6,
		MinLeaf:  3,
		Seed:     1,
	}
}

// Forest averages bootstrap-bagged probability trees. It is the fallback
// when boosting is not wanted; it does not supply per-feature attributions.
type Forest struct {
	Trees     []Tree
	NFeatures int
}

// TrainForest fits the forest with a seeded RNG so reruns are identical.
func TrainForest(X [][]float64, y []float64, p ForestParams) *Forest {
	n := len(X)
	nf := len(X[0])
	rng := rand.New(rand.NewSource(p.Seed))

	maxFeatures := int(math.Ceil(math.Sqrt(float64(nf))))
	m := &Forest{NFeatures: nf}

	pool := make([]int, nf)
	for i := range pool {
		pool[i] = i
	}

	for round := 0; round < p.Trees; round++ {
		// Bootstrap sample of the rows.
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		// Fresh feature order per tree; bestSplit takes a prefix.
		shuffled := append([]int(nil), pool...)
		rng.Shuffle(nf, func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		t := fitRegression(X, y, idx, fitParams{
			maxDepth:    p.MaxDepth,
			minLeaf:     p.MinLeaf,
			maxFeatures: maxFeatures,
			featurePool: shuffled,
		})
		m.Trees = append(m.Trees, *t)
	}
	return m
}

// PredictProba returns the mean leaf probability across the bag.
func (m *Forest) PredictProba(x []float64) float64 {
	if len(m.Trees) == 0 {
		return 0
	}
	var s float64
	for i := range m.Trees {
		s += m.Trees[i].Predict(x)
	}
	p := s / float64(len(m.Trees))
	return math.Min(math.Max(p, 0), 1)
}

// Contributions returns nil: bagged trees do not expose a meaningful
// single-path attribution, and the predictor never synthesizes one.
func (m *Forest) Contributions(_ []float64) []float64 { return nil }

// Kind identifies the model family.
func (m *Forest) Kind() model.ModelKind { return model.KindForest }

// NumFeatures returns the input width the model was trained on.
func (m *Forest) NumFeatures() int { return m.NFeatures }
