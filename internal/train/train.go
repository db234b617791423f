// Package train fits and evaluates hiring classifiers and persists the
// resulting artifact: an opaque model blob plus a YAML manifest fixing the
// feature-name contract.
package train

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/hiring-radar/internal/model"
	"github.com/sells-group/hiring-radar/internal/tree"
)

// Params configure one training call.
type Params struct {
	Kind      model.ModelKind
	TestSplit float64 // held-out fraction, default 0.2
	KFolds    int     // cross-validation folds on the training split
	Seed      int64
	GBT       tree.GBTParams
	Forest    tree.ForestParams
}

// DefaultParams returns the standard training setup for a model kind.
func DefaultParams(kind model.ModelKind) Params {
	return Params{
		Kind:      kind,
		TestSplit: 0.2,
		KFolds:    5,
		Seed:      42,
		GBT:       tree.DefaultGBTParams(),
		Forest:    tree.DefaultForestParams(),
	}
}

// Artifact pairs a fitted model with its manifest.
type Artifact struct {
	Model    tree.Model
	Manifest model.Manifest
}

// Train validates the data, splits it deterministically with
// stratification, fits the selected model kind and evaluates it. The split
// and every random draw derive from Params.Seed, so metrics reproduce
// exactly across reruns.
func Train(X []model.FeatureVector, y []int, p Params) (*Artifact, error) {
	if len(X) == 0 {
		return nil, &model.TrainingDataError{Reason: "empty training set"}
	}
	if len(X) != len(y) {
		return nil, &model.TrainingDataError{Reason: "feature and label counts differ"}
	}
	var positives int
	for i, v := range X {
		if !v.Finite() {
			return nil, &model.TrainingDataError{Reason: "non-finite feature value"}
		}
		if y[i] != 0 && y[i] != 1 {
			return nil, &model.TrainingDataError{Reason: "labels must be 0 or 1"}
		}
		positives += y[i]
	}
	if positives == 0 || positives == len(y) {
		return nil, &model.TrainingDataError{Reason: "only one class present"}
	}
	if !p.Kind.Valid() {
		return nil, &model.TrainingDataError{Reason: "unknown model kind " + string(p.Kind)}
	}
	if p.TestSplit <= 0 || p.TestSplit >= 1 {
		p.TestSplit = 0.2
	}
	if p.KFolds < 2 {
		p.KFolds = 5
	}

	rows := make([][]float64, len(X))
	labels := make([]float64, len(y))
	for i, v := range X {
		rows[i] = v.Values()
		labels[i] = float64(y[i])
	}

	trainIdx, testIdx := stratifiedSplit(y, p.TestSplit, p.Seed)

	m := fit(rows, labels, trainIdx, p)

	metrics := model.Metrics{
		TrainAccuracy: accuracy(m, rows, labels, trainIdx),
		TestAccuracy:  accuracy(m, rows, labels, testIdx),
		ROCAUC:        rocAUC(m, rows, labels, testIdx),
		CVAccuracy:    crossValidate(rows, labels, trainIdx, p),
		Samples:       len(X),
		Positives:     positives,
	}

	zap.L().Info("train: model fitted",
		zap.String("kind", string(p.Kind)),
		zap.Int("samples", metrics.Samples),
		zap.Float64("test_accuracy", metrics.TestAccuracy),
		zap.Float64("roc_auc", metrics.ROCAUC),
		zap.Float64("cv_accuracy", metrics.CVAccuracy),
	)

	return &Artifact{
		Model: m,
		Manifest: model.Manifest{
			ModelID:      uuid.NewString(),
			Kind:         p.Kind,
			FeatureNames: append([]string(nil), model.FeatureNames...),
			TrainedAt:    time.Now().UTC(),
			Metrics:      metrics,
		},
	}, nil
}

func fit(rows [][]float64, labels []float64, idx []int, p Params) tree.Model {
	subX := make([][]float64, len(idx))
	subY := make([]float64, len(idx))
	for i, j := range idx {
		subX[i] = rows[j]
		subY[i] = labels[j]
	}
	if p.Kind == model.KindForest {
		fp := p.Forest
		fp.Seed = p.Seed
		return tree.TrainForest(subX, subY, fp)
	}
	return tree.TrainGBT(subX, subY, p.GBT)
}

// stratifiedSplit shuffles each class with a seeded RNG and holds out the
// requested fraction of both, so train and test keep the class balance.
func stratifiedSplit(y []int, testFrac float64, seed int64) (trainIdx, testIdx []int) {
	rng := rand.New(rand.NewSource(seed))
	var pos, neg []int
	for i, label := range y {
		if label == 1 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	for _, class := range [][]int{pos, neg} {
		class := class
		rng.Shuffle(len(class), func(a, b int) {
			class[a], class[b] = class[b], class[a]
		})
		cut := int(math.Round(float64(len(class)) * testFrac))
		if cut == 0 && len(class) > 1 {
			cut = 1
		}
		testIdx = append(testIdx, class[:cut]...)
		trainIdx = append(trainIdx, class[cut:]...)
	}
	sort.Ints(trainIdx)
	sort.Ints(testIdx)
	return trainIdx, testIdx
}

func accuracy(m tree.Model, rows [][]float64, labels []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var correct int
	for _, i := range idx {
		pred := 0.0
		if m.PredictProba(rows[i]) >= 0.5 {
			pred = 1
		}
		if pred == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(idx))
}

// rocAUC scores the held-out split with gonum's ROC sweep.
func rocAUC(m tree.Model, rows [][]float64, labels []float64, idx []int) float64 {
	if len(idx) < 2 {
		return 0
	}
	scores := make([]float64, len(idx))
	classes := make([]bool, len(idx))
	for i, j := range idx {
		scores[i] = m.PredictProba(rows[j])
		classes[i] = labels[j] == 1
	}
	// gonum requires scores in ascending order with classes aligned.
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })
	sortedScores := make([]float64, len(scores))
	sortedClasses := make([]bool, len(classes))
	for i, j := range order {
		sortedScores[i] = scores[j]
		sortedClasses[i] = classes[j]
	}
	tpr, fpr, _ := stat.ROC(nil, sortedScores, sortedClasses, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

// crossValidate runs k-fold on the training split with deterministic
// stratified fold assignment and returns the mean fold accuracy.
func crossValidate(rows [][]float64, labels []float64, trainIdx []int, p Params) float64 {
	k := p.KFolds
	folds := make([][]int, k)

	// Round-robin per class keeps every fold stratified.
	var pos, neg []int
	for _, i := range trainIdx {
		if labels[i] == 1 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	rng := rand.New(rand.NewSource(p.Seed + 1))
	for _, class := range [][]int{pos, neg} {
		class := class
		rng.Shuffle(len(class), func(a, b int) {
			class[a], class[b] = class[b], class[a]
		})
		for i, j := range class {
			folds[i%k] = append(folds[i%k], j)
		}
	}

	var sum float64
	var scored int
	for f := 0; f < k; f++ {
		var holdout, rest []int
		for g := 0; g < k; g++ {
			if g == f {
				holdout = append(holdout, folds[g]...)
			} else {
				rest = append(rest, folds[g]...)
			}
		}
		if len(holdout) == 0 || !bothClasses(labels, rest) {
			continue
		}
		m := fit(rows, labels, rest, p)
		sum += accuracy(m, rows, labels, holdout)
		scored++
	}
	if scored == 0 {
		return 0
	}
	return sum / float64(scored)
}

func bothClasses(labels []float64, idx []int) bool {
	var pos, neg bool
	for _, i := range idx {
		if labels[i] == 1 {
			pos = true
		} else {
			neg = true
		}
	}
	return pos && neg
}
