package model

import "time"

// ModelKind selects the classifier family.
type ModelKind string

const (
	KindGBT    ModelKind = "gbt"
	KindForest ModelKind = "forest"
)

// Valid reports whether the kind is one of the supported families.
func (k ModelKind) Valid() bool {
	return k == KindGBT || k == KindForest
}

// Metrics holds the evaluation results recorded at training time.
type Metrics struct {
	TrainAccuracy float64 `json:"train_accuracy" yaml:"train_accuracy"`
	TestAccuracy  float64 `json:"test_accuracy" yaml:"test_accuracy"`
	ROCAUC        float64 `json:"roc_auc" yaml:"roc_auc"`
	CVAccuracy    float64 `json:"cv_accuracy" yaml:"cv_accuracy"`
	Samples       int     `json:"samples" yaml:"samples"`
	Positives     int     `json:"positives" yaml:"positives"`
}

// Manifest is the sidecar shipped next to the serialized model blob. Its
// feature-name list defines the input contract at prediction time.
type Manifest struct {
	ModelID      string    `yaml:"model_id"`
	Kind         ModelKind `yaml:"model_kind"`
	FeatureNames []string  `yaml:"feature_names"`
	TrainedAt    time.Time `yaml:"trained_at"`
	Metrics      Metrics   `yaml:"metrics"`
}
