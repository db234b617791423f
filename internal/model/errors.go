package model

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable is returned when no serialized model can be loaded
// from the configured path. The predictor refuses all work until an
// operator provides one.
var ErrModelUnavailable = errors.New("model unavailable")

// FeatureContractError reports input whose field names or order do not
// match the loaded model manifest. Fatal for the single prediction; a batch
// skips the item and continues.
type FeatureContractError struct {
	Reason   string
	Expected []string
	Got      []string
}

func (e *FeatureContractError) Error() string {
	return fmt.Sprintf("feature contract violation: %s", e.Reason)
}

// TrainingDataError reports unusable training input: empty matrix,
// non-finite columns, or labels with a single class.
type TrainingDataError struct {
	Reason string
}

func (e *TrainingDataError) Error() string {
	return fmt.Sprintf("training data: %s", e.Reason)
}

// AdapterWarning is a non-fatal problem found while normalizing raw
// records. Warnings are attached to the adapted bundle and logged, never
// raised.
type AdapterWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w AdapterWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}
