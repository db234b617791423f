package tree

import (
	"encoding/gob"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hiring-radar/internal/model"
)

// Model is the behavior both families share. Contributions may return nil
// when the family cannot attribute.
type Model interface {
	PredictProba(x []float64) float64
	Contributions(x []float64) []float64
	Kind() model.ModelKind
	NumFeatures() int
}

// envelope tags the concrete family for gob. The blob stays opaque to
// everything outside this package; the manifest sidecar carries the
// human-readable metadata.
type envelope struct {
	Kind   model.ModelKind
	GBT    *GBT
	Forest *Forest
}

// Encode writes a model blob.
func Encode(w io.Writer, m Model) error {
	env := envelope{Kind: m.Kind()}
	switch v := m.(type) {
	case *GBT:
		env.GBT = v
	case *Forest:
		env.Forest = v
	default:
		return eris.Errorf("tree: unsupported model type %T", m)
	}
	if err := gob.NewEncoder(w).Encode(env); err != nil {
		return eris.Wrap(err, "tree: encode model")
	}
	return nil
}

// Decode reads a model blob written by Encode.
func Decode(r io.Reader) (Model, error) {
	var env envelope
	if err := gob.NewDecoder(r).Decode(&env); err != nil {
		return nil, eris.Wrap(err, "tree: decode model")
	}
	switch env.Kind {
	case model.KindGBT:
		if env.GBT == nil {
			return nil, eris.New("tree: gbt blob is empty")
		}
		return env.GBT, nil
	case model.KindForest:
		if env.Forest == nil {
			return nil, eris.New("tree: forest blob is empty")
		}
		return env.Forest, nil
	default:
		return nil, eris.Errorf("tree: unknown model kind %q", env.Kind)
	}
}
