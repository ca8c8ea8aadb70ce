package export

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/heimdex/heimdex-editor/internal/timeline"
)

// DocumentVersion is the version written into project documents.
const DocumentVersion = 1

// Document is the YAML form of a saved project.
type Document struct {
	Version    int                `yaml:"version"`
	ExportedAt time.Time          `yaml:"exportedAt"`
	Project    *timeline.Snapshot `yaml:"project"`
}

var ErrNoProject = errors.New("document has no project")

// MarshalDocument writes snap as a versioned YAML project document.
func MarshalDocument(snap *timeline.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, ErrNoProject
	}
	return yaml.Marshal(Document{
		Version:    DocumentVersion,
		ExportedAt: time.Now().UTC(),
		Project:    snap,
	})
}

// UnmarshalDocument reads a project document written by MarshalDocument.
func UnmarshalDocument(data []byte) (*timeline.Snapshot, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse project document: %w", err)
	}
	if doc.Version > DocumentVersion {
		return nil, fmt.Errorf("unsupported project document version %d", doc.Version)
	}
	if doc.Project == nil {
		return nil, ErrNoProject
	}
	return doc.Project, nil
}
