package train

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/hiring-radar/internal/model"
	"github.com/sells-group/hiring-radar/internal/tree"
)

// ManifestPath returns the sidecar location for a model blob path.
func ManifestPath(modelPath string) string {
	return modelPath + ".manifest.yaml"
}

// Save writes the model blob to path and the manifest sidecar next to it.
// Parent directories are created as needed.
func Save(a *Artifact, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "train: create model dir")
	}

	var blob bytes.Buffer
	if err := tree.Encode(&blob, a.Model); err != nil {
		return err
	}
	if err := os.WriteFile(path, blob.Bytes(), 0o644); err != nil {
		return eris.Wrap(err, "train: write model blob")
	}

	manifest, err := yaml.Marshal(a.Manifest)
	if err != nil {
		return eris.Wrap(err, "train: marshal manifest")
	}
	if err := os.WriteFile(ManifestPath(path), manifest, 0o644); err != nil {
		return eris.Wrap(err, "train: write manifest")
	}
	return nil
}

// Load reads an artifact written by Save. A missing blob or sidecar means
// there is no usable model at this path.
func Load(path string) (*Artifact, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(model.ErrModelUnavailable, "no model blob at %s: %v", path, err)
	}
	m, err := tree.Decode(bytes.NewReader(blob))
	if err != nil {
		return nil, eris.Wrapf(model.ErrModelUnavailable, "corrupt model blob at %s: %v", path, err)
	}

	raw, err := os.ReadFile(ManifestPath(path))
	if err != nil {
		return nil, eris.Wrapf(model.ErrModelUnavailable, "no manifest at %s: %v", ManifestPath(path), err)
	}
	var manifest model.Manifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, eris.Wrapf(model.ErrModelUnavailable, "corrupt manifest at %s: %v", ManifestPath(path), err)
	}
	if manifest.Kind != m.Kind() {
		return nil, eris.Wrapf(model.ErrModelUnavailable, "manifest kind %s does not match blob kind %s", manifest.Kind, m.Kind())
	}
	if len(manifest.FeatureNames) != m.NumFeatures() {
		return nil, eris.Wrapf(model.ErrModelUnavailable, "manifest lists %d features, blob expects %d", len(manifest.FeatureNames), m.NumFeatures())
	}

	return &Artifact{Model: m, Manifest: manifest}, nil
}
