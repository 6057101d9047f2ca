package scenestore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/inamate/stage/internal/document"
	"github.com/inamate/stage/internal/typeid"
)

// PlaygroundID is the shared room anyone may open.
const PlaygroundID = "playground"

const fileExt = ".json"

var (
	ErrNotFound      = errors.New("scene not found")
	ErrInvalidRoomID = errors.New("invalid room id")
)

// Info describes a stored scene.
type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Elements  int       `json:"elements"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store keeps one JSON document per room in a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scene dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// ValidateRoomID accepts the playground id and room typeids. Anything else
// could escape the store directory.
func ValidateRoomID(roomID string) error {
	if roomID == PlaygroundID {
		return nil
	}
	if err := typeid.Validate(roomID, typeid.PrefixRoom); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRoomID, err)
	}
	return nil
}

func (s *Store) path(roomID string) string {
	return filepath.Join(s.dir, roomID+fileExt)
}

func (s *Store) Load(roomID string) (*document.Document, error) {
	if err := ValidateRoomID(roomID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(roomID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", roomID, err)
	}
	return doc, nil
}

// Save writes the scene through a temporary file so readers never see a
// partial document.
func (s *Store) Save(roomID string, doc *document.Document) error {
	if err := ValidateRoomID(roomID); err != nil {
		return err
	}
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, roomID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create scene file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write scene file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close scene file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(roomID)); err != nil {
		return fmt.Errorf("rename scene file: %w", err)
	}
	return nil
}

func (s *Store) Delete(roomID string) error {
	if err := ValidateRoomID(roomID); err != nil {
		return err
	}
	err := os.Remove(s.path(roomID))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// List returns the stored scenes, most recently updated first. Unreadable
// files are skipped.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		roomID := strings.TrimSuffix(name, fileExt)
		doc, err := s.Load(roomID)
		if err != nil {
			slog.Warn("skip scene file", "file", name, "error", err)
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{ID: roomID, Name: doc.Name, Elements: len(doc.Elements), UpdatedAt: fi.ModTime()})
	}
	slices.SortFunc(infos, func(a, b Info) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	return infos, nil
}
