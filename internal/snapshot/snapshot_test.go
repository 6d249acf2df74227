package snapshot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsKilledMarkerPid(t *testing.T) {
	_, err := New(KilledMarker, 0, "x")
	assert.Error(t, err)
}

func TestSnapshot_PutDuplicateFrom_LastWriteWins(t *testing.T) {
	s, err := New(1, 0, "proc")
	require.NoError(t, err)

	a := NewEntry(0x1000, 0x2000, "rw-p", 0, "00:00", "[heap]")
	a.SetByName("Referenced", 100)
	b := NewEntry(0x1000, 0x3000, "rw-p", 0, "00:00", "[heap]")
	b.SetByName("Referenced", 200)

	s.Put(a)
	s.Put(b)

	assert.Equal(t, 1, s.Len())
	got, ok := s.FindEntryByFrom(0x1000)
	require.True(t, ok)
	assert.Equal(t, uint64(200), got.referenced())
}

func TestSnapshot_Equal_IgnoresTimestamp(t *testing.T) {
	mk := func(ts int64) *Snapshot {
		s, _ := New(1, ts, "proc")
		e := NewEntry(0x1000, 0x2000, "rw-p", 0, "00:00", "[heap]")
		e.SetByName("Referenced", 1000)
		s.Put(e)
		return s
	}

	a, b := mk(0), mk(100)
	assert.True(t, a.Equal(b))
}

func TestSnapshot_CalcHeapUsage(t *testing.T) {
	s, err := New(1, 0, "proc")
	require.NoError(t, err)

	heap := NewEntry(0x1000, 0x2000, "rw-p", 0, "00:00", "[heap]")
	heap.SetByName("Referenced", 1000)
	anon := NewEntry(0x3000, 0x4000, "rw-p", 0, "00:00", "")
	anon.SetByName("Referenced", 500)
	other := NewEntry(0x5000, 0x6000, "r-xp", 0, "08:01", "/usr/lib/libc.so")
	other.SetByName("Referenced", 9999)

	s.Put(heap)
	s.Put(anon)
	s.Put(other)

	assert.Equal(t, int64(1500), s.CalcHeapUsage())
}

func TestWriteSnapshotBody_ReadRecord_RoundTrip(t *testing.T) {
	s, err := New(4242, 1000, "myproc")
	require.NoError(t, err)
	e := NewEntry(0x1000, 0x2000, "rw-p", 0, "00:00", "[heap]")
	e.SetByName("Referenced", 1000)
	s.Put(e)

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshotBody(&buf, s, nil))

	got, pid, err := readRecord(&buf, func(uint32) (*Snapshot, bool) { return nil, false })
	require.NoError(t, err)
	assert.Equal(t, uint32(4242), pid)
	assert.True(t, s.Equal(got))
}

func TestReadRecord_KilledMarker(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteKilledMarker(&buf))

	_, _, err := readRecord(&buf, func(uint32) (*Snapshot, bool) { return nil, false })
	assert.ErrorIs(t, err, ErrKilledPid)
}
