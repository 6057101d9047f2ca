package scenestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/stage/internal/document"
	"github.com/inamate/stage/internal/typeid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "scenes"))
	require.NoError(t, err)
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	roomID := typeid.NewRoomID()
	doc := document.NewSampleDocument()

	require.NoError(t, s.Save(roomID, doc))
	loaded, err := s.Load(roomID)
	require.NoError(t, err)
	assert.Equal(t, doc.Name, loaded.Name)
	assert.Len(t, loaded.Elements, len(doc.Elements))

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestLoadMissingScene(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(PlaygroundID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoomIDsAreValidated(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"../etc/passwd", "", "el_01h455vb4pex5vsknk084sn02q", "room"} {
		_, err := s.Load(id)
		assert.ErrorIs(t, err, ErrInvalidRoomID, id)
		assert.ErrorIs(t, s.Save(id, document.New()), ErrInvalidRoomID, id)
	}
	assert.NoError(t, ValidateRoomID(PlaygroundID))
	assert.NoError(t, ValidateRoomID(typeid.NewRoomID()))
}

func TestListAndDelete(t *testing.T) {
	s := newTestStore(t)
	first := typeid.NewRoomID()
	second := typeid.NewRoomID()

	named := document.New()
	named.Name = "Poster"
	require.NoError(t, s.Save(first, named))
	require.NoError(t, s.Save(second, document.NewSampleDocument()))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, typeid.NewRoomID()+".json"), []byte("{"), 0o644))

	infos, err := s.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	byID := map[string]Info{}
	for _, info := range infos {
		byID[info.ID] = info
	}
	assert.Equal(t, "Poster", byID[first].Name)
	assert.Equal(t, 0, byID[first].Elements)
	assert.Equal(t, 6, byID[second].Elements)

	require.NoError(t, s.Delete(first))
	assert.ErrorIs(t, s.Delete(first), ErrNotFound)
}
