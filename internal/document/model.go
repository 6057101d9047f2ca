package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/scene"
)

// CurrentVersion is the document format written by this package.
const CurrentVersion = 1

var ErrInvalidDocument = errors.New("invalid document")

// Document is the persisted shape of a scene: every element model in layer
// order plus the stage frame it was last viewed with.
type Document struct {
	Version   int                  `json:"version"`
	Name      string               `json:"name,omitempty"`
	UpdatedAt string               `json:"updatedAt,omitempty"`
	Frame     *geometry.StageFrame `json:"frame,omitempty"`
	Elements  []scene.Model        `json:"elements"`
}

// New returns an empty document at the current version.
func New() *Document {
	return &Document{
		Version:   CurrentVersion,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Elements:  []scene.Model{},
	}
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Version == 0 {
		doc.Version = CurrentVersion
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Marshal encodes the document.
func (d *Document) Marshal() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// Validate checks ids and group links. Dangling links are tolerated by the
// editor, but a group must not list itself and ids must be unique.
func (d *Document) Validate() error {
	if d.Version > CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidDocument, d.Version)
	}
	seen := make(map[string]struct{}, len(d.Elements))
	for _, m := range d.Elements {
		if m.ID == "" {
			return fmt.Errorf("%w: element without id", ErrInvalidDocument)
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidDocument, m.ID)
		}
		seen[m.ID] = struct{}{}
		if m.GroupID == m.ID || slices.Contains(m.SubIDs, m.ID) {
			return fmt.Errorf("%w: element %s contains itself", ErrInvalidDocument, m.ID)
		}
	}
	return nil
}
