// Package output serializes the merged corpus: the JSON artifact handed to
// durable storage and the CSV layout derived from it.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/devdiv-tools/jobdumper/internal/model"
)

// ArtifactFile is the artifact's file name within the data directory.
const ArtifactFile = "currentjobs.json"

// Ensure Publisher implements model.ArtifactPublisher.
var _ model.ArtifactPublisher = (*Publisher)(nil)

// Publisher writes the run artifact to a file. A flock around the write keeps
// a daemon run and a concurrent manual run from interleaving.
type Publisher struct {
	path string
	lock *flock.Flock
}

// NewPublisher returns a publisher targeting path.
func NewPublisher(path string) *Publisher {
	return &Publisher{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Publish serializes the artifact and replaces the target file atomically
// (write to a temp file in the same directory, then rename).
func (p *Publisher) Publish(artifact *model.Artifact) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("creating artifact dir: %w", err)
	}

	if err := p.lock.Lock(); err != nil {
		return fmt.Errorf("locking artifact: %w", err)
	}
	defer p.lock.Unlock()

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("replacing artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads a previously published artifact.
func LoadArtifact(path string) (*model.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	var artifact model.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}
	return &artifact, nil
}
