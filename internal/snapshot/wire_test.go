package snapshot

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadEntry_RoundTrip_NoPredecessor(t *testing.T) {
	e := NewEntry(0x1000, 0x2000, "rw-p", 0x100, "08:01", "[heap]")
	e.SetByName("Referenced", 1000)
	e.SetByName("Rss", 1200)

	var buf bytes.Buffer
	require.NoError(t, WriteEntry(&buf, e, nil))

	got, err := ReadEntry(&buf, nil)
	require.NoError(t, err)
	assert.True(t, e.Equal(got))
}

func TestWriteReadEntry_RoundTrip_WithPredecessor_OnlyChangedFieldsWritten(t *testing.T) {
	prev := NewEntry(0x1000, 0x2000, "rw-p", 0, "00:00", "[heap]")
	prev.SetByName("Referenced", 1000)
	prev.SetByName("Rss", 1200)

	next := NewEntry(0x1000, 0x2000, "rw-p", 0, "00:00", "[heap]")
	next.SetByName("Referenced", 2000)
	next.SetByName("Rss", 1200)

	var buf bytes.Buffer
	require.NoError(t, WriteEntry(&buf, next, prev))

	prevSnap, err := New(1, 0, "proc")
	require.NoError(t, err)
	prevSnap.Put(prev)

	got, err := ReadEntry(&buf, prevSnap)
	require.NoError(t, err)
	assert.True(t, next.Equal(got), "decoded entry mismatch:\nwant %s\ngot  %s", spew.Sdump(next), spew.Sdump(got))
}

func TestReadEntry_BadSyncWordIsBestEffort(t *testing.T) {
	e := NewEntry(0x1000, 0x2000, "rw-p", 0, "00:00", "[heap]")
	e.SetByName("Referenced", 500)

	var buf bytes.Buffer
	require.NoError(t, WriteEntry(&buf, e, nil))

	corrupted := buf.Bytes()
	corrupted[0] ^= 0xFF // flip a byte inside the sync word

	got, err := ReadEntry(bytes.NewReader(corrupted), nil)
	require.NoError(t, err, "a bad sync word is logged, not fatal")
	assert.Equal(t, e.From, got.From)
	assert.Equal(t, e.referenced(), got.referenced())
}
