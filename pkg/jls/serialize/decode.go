package serialize

import (
	"encoding/binary"

	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
)

// Decoder reads little-endian primitives and terminated strings out of a
// borrowed byte slice (typically a chunk payload). It never copies: the
// slices ReadString returns alias the borrowed buffer, so a caller that
// keeps a string past the buffer's reuse copies it out itself (the reader
// does so into its string arena).
type Decoder struct {
	buf    []byte
	cursor int
}

// NewDecoder wraps buf for sequential decoding.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.cursor
}

// Skip advances the cursor by n bytes without interpreting them.
func (d *Decoder) Skip(n int) error {
	if d.Remaining() < n {
		return jlserr.New("decode", jlserr.ParameterInvalid)
	}
	d.cursor += n
	return nil
}

func (d *Decoder) need(n int) error {
	if d.Remaining() < n {
		return jlserr.New("decode", jlserr.ParameterInvalid)
	}
	return nil
}

// ReadU8 reads one byte.
func (d *Decoder) ReadU8() (uint8, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	v := d.buf[d.cursor]
	d.cursor++
	return v, nil
}

// ReadU16 reads a little-endian uint16.
func (d *Decoder) ReadU16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(d.buf[d.cursor:])
	d.cursor += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32.
func (d *Decoder) ReadU32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.buf[d.cursor:])
	d.cursor += 4
	return v, nil
}

// ReadU64 reads a little-endian uint64.
func (d *Decoder) ReadU64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.buf[d.cursor:])
	d.cursor += 8
	return v, nil
}

// ReadI64 reads a little-endian int64.
func (d *Decoder) ReadI64() (int64, error) {
	v, err := d.ReadU64()
	return int64(v), err
}

// ReadF32 reads a little-endian IEEE-754 float32.
func (d *Decoder) ReadF32() (float32, error) {
	v, err := d.ReadU32()
	if err != nil {
		return 0, err
	}
	return f32frombits(v), nil
}

// ReadBinary reads n raw bytes. The returned slice aliases the Decoder's
// backing array; callers that need to retain it past the payload buffer's
// lifetime must copy (see the reader's string arena for the copying path).
func (d *Decoder) ReadBinary(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	v := d.buf[d.cursor : d.cursor+n]
	d.cursor += n
	return v, nil
}

// ReadString scans forward for the {0x00, 0x1F} terminator and returns the
// bytes before it (not including the terminator), advancing past it. The
// returned slice aliases the Decoder's backing array.
func (d *Decoder) ReadString() ([]byte, error) {
	for i := d.cursor; i+1 < len(d.buf); i++ {
		if d.buf[i] == directory.StringTerminator[0] && d.buf[i+1] == directory.StringTerminator[1] {
			v := d.buf[d.cursor:i]
			d.cursor = i + 2
			return v, nil
		}
	}
	return nil, jlserr.New("decode", jlserr.ParameterInvalid)
}

// ReadSummaryEntry reads one fixed-layout summary reduction.
func (d *Decoder) ReadSummaryEntry() (directory.SummaryEntry, error) {
	var e directory.SummaryEntry
	var err error
	if e.Mean, err = d.ReadF32(); err != nil {
		return e, err
	}
	if e.Min, err = d.ReadF32(); err != nil {
		return e, err
	}
	if e.Max, err = d.ReadF32(); err != nil {
		return e, err
	}
	if e.StdDev, err = d.ReadF32(); err != nil {
		return e, err
	}
	return e, nil
}

// ReadIndexEntry reads one index-chunk child pointer.
func (d *Decoder) ReadIndexEntry() (directory.IndexEntry, error) {
	var e directory.IndexEntry
	var err error
	if e.ChildTimestamp, err = d.ReadU64(); err != nil {
		return e, err
	}
	if e.ChildEntries, err = d.ReadU32(); err != nil {
		return e, err
	}
	if e.ChildOffset, err = d.ReadU64(); err != nil {
		return e, err
	}
	return e, nil
}
