package typeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDsCarryPrefix(t *testing.T) {
	el := NewElementID()
	require.NoError(t, Validate(el, PrefixElement))
	assert.Error(t, Validate(el, PrefixGroup))

	grp := NewGroupID()
	prefix, err := Prefix(grp)
	require.NoError(t, err)
	assert.Equal(t, PrefixGroup, prefix)

	assert.NotEqual(t, NewElementID(), el)
}

func TestValidateRejectsGarbage(t *testing.T) {
	assert.Error(t, Validate("not an id", PrefixElement))
}
