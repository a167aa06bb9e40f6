package canon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashDeterministicAcrossKeyOrder(t *testing.T) {
	a := map[string]any{"b": 2, "a": 1}
	b := map[string]any{"a": 1, "b": 2}

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)

	require.Equal(t, ha, hb)
}

func TestHashDiffersOnContentChange(t *testing.T) {
	ha := MustHash(map[string]any{"a": 1})
	hb := MustHash(map[string]any{"a": 2})
	require.NotEqual(t, ha, hb)
}
