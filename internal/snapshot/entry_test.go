package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntry_SetByName(t *testing.T) {
	e := NewEntry(0x1000, 0x2000, "rw-p", 0, "00:00", "[heap]")
	ok := e.SetByName("Referenced", 1000)
	assert.True(t, ok)
	assert.Equal(t, uint64(1000), e.referenced())

	ok = e.SetByName("THPeligible", 1)
	assert.False(t, ok, "unrecognized fields report ok=false, per §4.1")
}

func TestEntry_Equal(t *testing.T) {
	a := NewEntry(0x1000, 0x2000, "rw-p", 0, "00:00", "[heap]")
	a.SetByName("Referenced", 1000)

	b := NewEntry(0x1000, 0x2000, "rw-p", 0, "00:00", "[heap]")
	b.SetByName("Referenced", 1000)

	assert.True(t, a.Equal(b))

	b.SetByName("Referenced", 2000)
	assert.False(t, a.Equal(b))
}

func TestEntry_IsHeapOrAnonymous(t *testing.T) {
	heap := NewEntry(0, 0, "", 0, "", "[heap]")
	anon := NewEntry(0, 0, "", 0, "", "")
	other := NewEntry(0, 0, "", 0, "", "/usr/lib/libc.so")

	assert.True(t, heap.isHeapOrAnonymous())
	assert.True(t, anon.isHeapOrAnonymous())
	assert.False(t, other.isHeapOrAnonymous())
}
