package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"

	"github.com/ja7ad/heaphawk/internal/smapsfield"
)

// FormatVersion is the only log version this codec understands (§4.3).
// Cross-version compatibility is not guaranteed.
const FormatVersion uint32 = 1

// entrySyncWord marks the start of each encoded Entry; a mismatch on read
// means the stream has drifted, which is logged and best-effort recovered
// from (§7.2, §8 scenario 6).
const entrySyncWord uint32 = 0x12563478

// KilledMarker is the reserved sentinel that stands in for a snapshot body
// when a previously-seen pid has disappeared (§3, §4.3).
const KilledMarker uint32 = 0xFFFFFFFF

// WriteVersion writes the format-version header that must lead every log
// file (§6.2).
func WriteVersion(w io.Writer) error {
	return writeUint32(w, FormatVersion)
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeInt32(w io.Writer, v int32) error {
	return writeUint32(w, uint32(v))
}

func writeInt64(w io.Writer, v int64) error {
	return writeUint64(w, uint64(v))
}

func writeString(w io.Writer, s string) error {
	if err := writeInt32(w, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func readInt32(r io.Reader) (int32, error) {
	v, err := readUint32(r)
	return int32(v), err
}

func readInt64(r io.Reader) (int64, error) {
	v, err := readUint64(r)
	return int64(v), err
}

func readString(r io.Reader) (string, error) {
	length, err := readInt32(r)
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", fmt.Errorf("snapshot: negative string length %d", length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteEntry encodes e against an optional predecessor (the same-From entry
// in the previous snapshot of this process), per §4.2. Eager headline
// fields are always written in full; registry statistics are written only
// when they differ from prev, with a bitmask of which ones were written.
//
// The entry body is assembled in memory first so the flags word can
// precede its fields without seeking w (§4.2/§9's buffered alternative).
func WriteEntry(w io.Writer, e *Entry, prev *Entry) error {
	var body bytes.Buffer

	if err := writeUint64(&body, e.From); err != nil {
		return err
	}
	if err := writeUint64(&body, e.To); err != nil {
		return err
	}
	if err := writeString(&body, e.Permissions); err != nil {
		return err
	}
	if err := writeUint64(&body, e.Offset); err != nil {
		return err
	}
	if err := writeString(&body, e.Device); err != nil {
		return err
	}
	if err := writeString(&body, e.PathName); err != nil {
		return err
	}

	var flags uint32
	var values bytes.Buffer
	for i := 0; i < smapsfield.Count; i++ {
		v := e.values[i]
		if prev != nil && prev.values[i] == v {
			continue
		}
		flags |= 1 << uint(i)
		if err := writeUint64(&values, v); err != nil {
			return err
		}
	}

	if err := writeUint32(w, entrySyncWord); err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	if err := writeUint32(w, flags); err != nil {
		return err
	}
	_, err := w.Write(values.Bytes())
	return err
}

// ReadEntry decodes one Entry from r. prevSnapshot supplies fallback values
// for statistics whose bit is clear in flags, matched by From address; if
// there is no such predecessor entry, the field stays at its zero default.
// A bad sync word is logged and decoding continues best-effort (§7.2, §8
// scenario 6).
func ReadEntry(r io.Reader, prevSnapshot *Snapshot) (*Entry, error) {
	sync, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if sync != entrySyncWord {
		slog.Warn("entry out of sync", "got", fmt.Sprintf("%#x", sync), "want", fmt.Sprintf("%#x", entrySyncWord))
	}

	from, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	to, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	permissions, err := readString(r)
	if err != nil {
		return nil, err
	}
	offset, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	device, err := readString(r)
	if err != nil {
		return nil, err
	}
	pathName, err := readString(r)
	if err != nil {
		return nil, err
	}

	e := NewEntry(from, to, permissions, offset, device, pathName)

	var prevEntry *Entry
	if prevSnapshot != nil {
		prevEntry, _ = prevSnapshot.FindEntryByFrom(from)
	}

	flags, err := readUint32(r)
	if err != nil {
		return nil, err
	}

	for i := 0; i < smapsfield.Count; i++ {
		if flags&(1<<uint(i)) != 0 {
			v, err := readUint64(r)
			if err != nil {
				return nil, err
			}
			e.values[i] = v
		} else if prevEntry != nil {
			e.values[i] = prevEntry.values[i]
		}
	}

	return e, nil
}
