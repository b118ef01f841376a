// Package serialize implements the bounded scratch buffer (spec.md §4.2):
// little-endian primitive writers and length-delimited string writing over
// a fixed-capacity region, failing with NOT_ENOUGH_MEMORY rather than
// growing, the same overflow-is-an-error discipline the teacher's own
// wal.Append (LSN overflow) and sstable_create.go (offset overflow) use.
package serialize

import (
	"encoding/binary"

	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
)

// DefaultCapacity is the minimum scratch region size spec.md §4.2 requires.
const DefaultCapacity = 1 << 20 // 1 MiB

// Buffer is a bounded, reusable scratch region with a moving write cursor.
type Buffer struct {
	buf    []byte
	cursor int
}

// NewBuffer allocates a Buffer with the given capacity, or DefaultCapacity
// if capacity is less than that floor.
func NewBuffer(capacity int) *Buffer {
	if capacity < DefaultCapacity {
		capacity = DefaultCapacity
	}
	return &Buffer{buf: make([]byte, capacity)}
}

// Reset rewinds the cursor to the start without reallocating.
func (b *Buffer) Reset() {
	b.cursor = 0
}

// Len returns the number of bytes written since the last Reset.
func (b *Buffer) Len() int {
	return b.cursor
}

// Bytes returns the written region. The slice is only valid until the next
// Reset or write call.
func (b *Buffer) Bytes() []byte {
	return b.buf[:b.cursor]
}

func (b *Buffer) ensure(n int) error {
	if b.cursor+n > len(b.buf) {
		return jlserr.New("serialize", jlserr.NotEnoughMemory)
	}
	return nil
}

// WriteZero appends n zero bytes.
func (b *Buffer) WriteZero(n int) error {
	if err := b.ensure(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		b.buf[b.cursor+i] = 0
	}
	b.cursor += n
	return nil
}

// WriteU8 appends one byte.
func (b *Buffer) WriteU8(v uint8) error {
	if err := b.ensure(1); err != nil {
		return err
	}
	b.buf[b.cursor] = v
	b.cursor++
	return nil
}

// WriteU16 appends a little-endian uint16.
func (b *Buffer) WriteU16(v uint16) error {
	if err := b.ensure(2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b.buf[b.cursor:], v)
	b.cursor += 2
	return nil
}

// WriteU32 appends a little-endian uint32.
func (b *Buffer) WriteU32(v uint32) error {
	if err := b.ensure(4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b.buf[b.cursor:], v)
	b.cursor += 4
	return nil
}

// WriteU64 appends a little-endian uint64.
func (b *Buffer) WriteU64(v uint64) error {
	if err := b.ensure(8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b.buf[b.cursor:], v)
	b.cursor += 8
	return nil
}

// WriteI64 appends a little-endian int64.
func (b *Buffer) WriteI64(v int64) error {
	return b.WriteU64(uint64(v))
}

// WriteF32 appends a little-endian IEEE-754 float32.
func (b *Buffer) WriteF32(v float32) error {
	return b.WriteU32(f32bits(v))
}

// WriteBinary appends length bytes verbatim.
func (b *Buffer) WriteBinary(data []byte) error {
	if err := b.ensure(len(data)); err != nil {
		return err
	}
	copy(b.buf[b.cursor:], data)
	b.cursor += len(data)
	return nil
}

// WriteString appends a UTF-8 string followed by the two-byte
// {0x00, 0x1F} terminator (spec.md §4.2).
func (b *Buffer) WriteString(s string) error {
	if err := b.WriteBinary([]byte(s)); err != nil {
		return err
	}
	return b.WriteBinary(directory.StringTerminator[:])
}

// WriteSummaryEntry appends one fixed-layout summary reduction.
func (b *Buffer) WriteSummaryEntry(e directory.SummaryEntry) error {
	if err := b.WriteF32(e.Mean); err != nil {
		return err
	}
	if err := b.WriteF32(e.Min); err != nil {
		return err
	}
	if err := b.WriteF32(e.Max); err != nil {
		return err
	}
	return b.WriteF32(e.StdDev)
}

// WriteIndexEntry appends one index-chunk child pointer.
func (b *Buffer) WriteIndexEntry(e directory.IndexEntry) error {
	if err := b.WriteU64(e.ChildTimestamp); err != nil {
		return err
	}
	if err := b.WriteU32(e.ChildEntries); err != nil {
		return err
	}
	return b.WriteU64(e.ChildOffset)
}
