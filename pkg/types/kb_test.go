package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKB_Humanized_Boundaries(t *testing.T) {
	cases := []struct {
		in   KB
		want string
	}{
		{KB(0), "0kB"},
		{KB(1), "1kB"},
		{KB(1023), "1023kB"},
		{KB(1024), "1.00 MB"},
		{KB(1024 * 1024), "1.00 GB"},
		{KB(-1024), "-1.00 MB"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.in.Humanized())
	}
}

func TestKB_UnitAccessors(t *testing.T) {
	assert.InDelta(t, 1.0, KB(1024).MB(), 1e-12)
	assert.InDelta(t, 1.0, KB(1024*1024).GB(), 1e-12)
	assert.InDelta(t, 1.5, KB(1536).MB(), 1e-12)
}

func TestKB_PerDay(t *testing.T) {
	assert.InDelta(t, 1_440_000.0, KB(1000).PerDay(60), 1e-9)
	assert.Equal(t, 0.0, KB(1000).PerDay(0))
}
