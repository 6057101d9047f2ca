package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/scene"
)

func TestSampleDocumentRoundTrip(t *testing.T) {
	doc := NewSampleDocument()
	require.NoError(t, doc.Validate())

	data, err := doc.Marshal()
	require.NoError(t, err)
	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, doc.Elements, got.Elements)
	assert.Equal(t, CurrentVersion, got.Version)
}

func TestSampleGroupIsReciprocal(t *testing.T) {
	doc := NewSampleDocument()
	byID := make(map[string]scene.Model)
	for _, m := range doc.Elements {
		byID[m.ID] = m
	}
	for _, m := range doc.Elements {
		for _, sub := range m.SubIDs {
			assert.Equal(t, m.ID, byID[sub].GroupID)
		}
	}
}

func TestValidateRejectsBadDocuments(t *testing.T) {
	a := scene.NewRect("a", geometry.Pt(0, 0), geometry.Pt(1, 1))

	tests := []struct {
		name string
		doc  Document
	}{
		{"duplicate id", Document{Version: 1, Elements: []scene.Model{a, a}}},
		{"missing id", Document{Version: 1, Elements: []scene.Model{{}}}},
		{"future version", Document{Version: 99}},
		{"self reference", Document{Version: 1, Elements: []scene.Model{func() scene.Model {
			m := a.Clone()
			m.GroupID = "a"
			return m
		}()}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.doc.Validate(), ErrInvalidDocument)
		})
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"elements": [`))
	assert.Error(t, err)
}
