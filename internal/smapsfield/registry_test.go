package smapsfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_KnownFields(t *testing.T) {
	f, ok := Lookup("Pss_Dirty")
	require.True(t, ok)
	assert.Equal(t, "Pss_Dirty", f.Name)

	var values [Count]uint64
	f.Set(&values, 42)
	assert.Equal(t, uint64(42), f.Get(&values))
}

func TestLookup_UnknownField(t *testing.T) {
	_, ok := Lookup("THPeligible")
	assert.False(t, ok, "THPeligible is deliberately not modeled")

	_, ok = Lookup("inode")
	assert.False(t, ok, "inode is deliberately not modeled")
}

func TestFields_IndicesAreDenseAndUnique(t *testing.T) {
	seen := make(map[int]bool)
	for _, f := range Fields {
		assert.False(t, seen[f.Index], "duplicate index %d", f.Index)
		seen[f.Index] = true
	}
	assert.Len(t, seen, Count)
	for i := 0; i < Count; i++ {
		assert.True(t, seen[i], "missing index %d", i)
	}
}

func TestByIndex_RoundTrip(t *testing.T) {
	for i := 0; i < Count; i++ {
		f := ByIndex(i)
		assert.Equal(t, i, f.Index)
	}
}
