package scenes

import (
	"errors"
	"fmt"

	"github.com/inamate/stage/internal/document"
	"github.com/inamate/stage/internal/scenestore"
	"github.com/inamate/stage/internal/typeid"
)

var ErrNotFound = scenestore.ErrNotFound

// Service manages stored scenes and resolves the initial scene of a room.
type Service struct {
	store *scenestore.Store
}

func NewService(store *scenestore.Store) *Service {
	return &Service{store: store}
}

// Load returns the stored scene of a room. Rooms without a stored scene start
// empty, except the playground which starts with the sample scene.
func (s *Service) Load(roomID string) (*document.Document, error) {
	doc, err := s.store.Load(roomID)
	if errors.Is(err, scenestore.ErrNotFound) {
		if roomID == scenestore.PlaygroundID {
			return document.NewSampleDocument(), nil
		}
		return document.New(), nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save stores the scene of a room.
func (s *Service) Save(roomID string, doc *document.Document) error {
	return s.store.Save(roomID, doc)
}

// Create stores an empty named scene under a new room id.
func (s *Service) Create(name string) (*scenestore.Info, error) {
	roomID := typeid.NewRoomID()
	doc := document.New()
	doc.Name = name
	if err := s.store.Save(roomID, doc); err != nil {
		return nil, fmt.Errorf("create scene: %w", err)
	}
	return &scenestore.Info{ID: roomID, Name: name}, nil
}

func (s *Service) List() ([]scenestore.Info, error) {
	return s.store.List()
}

func (s *Service) Delete(roomID string) error {
	return s.store.Delete(roomID)
}
