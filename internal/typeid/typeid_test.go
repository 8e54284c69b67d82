package typeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShapeIDHasPrefix(t *testing.T) {
	id := NewShapeID()
	require.NoError(t, Validate(id, PrefixShape))
	assert.Error(t, Validate(id, PrefixSession))
}

func TestNewShapeIDNeverRepeats(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewShapeID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	assert.Error(t, Validate("not an id", PrefixShape))
}
