// Package raw implements the lowest layer of the JLS container (spec.md
// §4.1): fixed-size chunk headers plus variable payloads at arbitrary file
// offsets, with seek/tell on chunk boundaries and in-place header/payload
// rewrite for the writer's back-patch protocol. This is the only layer
// that understands chunk framing; everything above it works in terms of
// directory.Chunk and []byte payloads.
package raw

import (
	"encoding/binary"
	"hash/crc32"
	"io"
	"os"

	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
)

// Mode selects how File.Open opens the underlying file.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

// File is the raw chunk-level handle over one open JLS file.
type File struct {
	f    *os.File
	mode Mode
}

// Open opens path in the given mode. ModeWrite creates the file if it does
// not exist and truncates it if it does (a JLS file has exactly one
// writer, per spec.md's Non-goals).
func Open(path string, mode Mode) (*File, error) {
	var f *os.File
	var err error
	switch mode {
	case ModeWrite:
		f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	case ModeRead:
		f, err = os.OpenFile(path, os.O_RDONLY, 0)
	default:
		return nil, jlserr.New("raw.Open", jlserr.ParameterInvalid)
	}
	if err != nil {
		return nil, jlserr.Wrap("raw.Open", jlserr.ParameterInvalid, err)
	}
	return &File{f: f, mode: mode}, nil
}

// Close closes the underlying file. Close on a nil *File is a no-op,
// matching the double-close discipline the teacher's FileRotator.Close
// uses.
func (r *File) Close() error {
	if r == nil || r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

// ChunkTell returns the current absolute file offset.
func (r *File) ChunkTell() (uint64, error) {
	off, err := r.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, jlserr.Wrap("raw.ChunkTell", jlserr.ParameterInvalid, err)
	}
	return uint64(off), nil
}

// ChunkSeek moves the cursor to the given absolute offset. It does not
// itself validate that offset lands on a chunk boundary; callers seek only
// to offsets they previously recorded from chunk headers or ChunkTell, so
// the only misalignment this layer actually refuses is a negative offset.
func (r *File) ChunkSeek(offset uint64) error {
	if _, err := r.f.Seek(int64(offset), io.SeekStart); err != nil {
		return jlserr.Wrap("raw.ChunkSeek", jlserr.ParameterInvalid, err)
	}
	return nil
}

func encodeHeader(c directory.Chunk) []byte {
	buf := make([]byte, directory.ChunkHeaderSize)
	binary.LittleEndian.PutUint64(buf[0:], c.ItemNext)
	binary.LittleEndian.PutUint64(buf[8:], c.ItemPrev)
	buf[16] = uint8(c.Tag)
	buf[17] = 0 // rsv0
	binary.LittleEndian.PutUint16(buf[18:], c.ChunkMeta)
	binary.LittleEndian.PutUint32(buf[20:], c.PayloadLength)
	binary.LittleEndian.PutUint32(buf[24:], c.PayloadPrevLength)
	crc := crc32.ChecksumIEEE(buf[0:28])
	binary.LittleEndian.PutUint32(buf[28:], crc)
	return buf
}

func decodeHeader(buf []byte) (directory.Chunk, error) {
	if len(buf) < directory.ChunkHeaderSize {
		return directory.Chunk{}, jlserr.New("raw.decodeHeader", jlserr.ParameterInvalid)
	}
	var c directory.Chunk
	c.ItemNext = binary.LittleEndian.Uint64(buf[0:])
	c.ItemPrev = binary.LittleEndian.Uint64(buf[8:])
	c.Tag = directory.Tag(buf[16])
	c.ChunkMeta = binary.LittleEndian.Uint16(buf[18:])
	c.PayloadLength = binary.LittleEndian.Uint32(buf[20:])
	c.PayloadPrevLength = binary.LittleEndian.Uint32(buf[24:])
	c.CRC32 = binary.LittleEndian.Uint32(buf[28:])
	expect := crc32.ChecksumIEEE(buf[0:28])
	if expect != c.CRC32 {
		return directory.Chunk{}, jlserr.New("raw.decodeHeader", jlserr.ParameterInvalid)
	}
	return c, nil
}

// ReadHeaderAndPayload reads the chunk at the current position into the
// caller-provided buffer and advances past it. If buf is smaller than the
// chunk's payload_length, it returns a TooBig error carrying the required
// size without advancing the cursor, so the caller can grow its buffer and
// retry the exact same read. At end of file it returns an Empty error.
func (r *File) ReadHeaderAndPayload(buf []byte) (directory.Chunk, []byte, error) {
	start, err := r.ChunkTell()
	if err != nil {
		return directory.Chunk{}, nil, err
	}

	hdrBuf := make([]byte, directory.ChunkHeaderSize)
	n, err := io.ReadFull(r.f, hdrBuf)
	if err == io.EOF || (err == io.ErrUnexpectedEOF && n == 0) {
		return directory.Chunk{}, nil, jlserr.New("raw.ReadHeaderAndPayload", jlserr.Empty)
	}
	if err != nil {
		// Truncated header: treat as a structural end, tolerant per
		// spec.md §4.5's failure semantics for scan.
		return directory.Chunk{}, nil, jlserr.New("raw.ReadHeaderAndPayload", jlserr.Empty)
	}

	c, err := decodeHeader(hdrBuf)
	if err != nil {
		return directory.Chunk{}, nil, jlserr.Wrap("raw.ReadHeaderAndPayload", jlserr.ParameterInvalid, err)
	}

	if uint32(len(buf)) < c.PayloadLength {
		// Rewind so a retry with a bigger buffer re-reads cleanly.
		if seekErr := r.ChunkSeek(start); seekErr != nil {
			return directory.Chunk{}, nil, seekErr
		}
		return directory.Chunk{}, nil, jlserr.TooBigErr("raw.ReadHeaderAndPayload", c.PayloadLength)
	}

	payload := buf[:c.PayloadLength]
	if c.PayloadLength > 0 {
		if _, err := io.ReadFull(r.f, payload); err != nil {
			return directory.Chunk{}, nil, jlserr.New("raw.ReadHeaderAndPayload", jlserr.Empty)
		}
	}
	return c, payload, nil
}

// Write appends a new chunk (header + payload) at the current position and
// leaves the cursor just past it.
func (r *File) Write(c directory.Chunk, payload []byte) error {
	c.PayloadLength = uint32(len(payload))
	hdrBuf := encodeHeader(c)
	if _, err := r.f.Write(hdrBuf); err != nil {
		return jlserr.Wrap("raw.Write", jlserr.ParameterInvalid, err)
	}
	if len(payload) > 0 {
		if _, err := r.f.Write(payload); err != nil {
			return jlserr.Wrap("raw.Write", jlserr.ParameterInvalid, err)
		}
	}
	return nil
}

// WriteHeader rewrites just the header at the current position, in place,
// without touching the payload that follows it. The payload_length already
// on disk is kept, whatever c.PayloadLength holds, so the payload stays
// readable. Used by the back-patch protocol to fix up a predecessor's
// item_next once a new chunk has been appended.
func (r *File) WriteHeader(c directory.Chunk) error {
	start, err := r.ChunkTell()
	if err != nil {
		return err
	}
	existing := make([]byte, directory.ChunkHeaderSize)
	if _, err := io.ReadFull(r.f, existing); err != nil {
		return jlserr.Wrap("raw.WriteHeader", jlserr.ParameterInvalid, err)
	}
	c.PayloadLength = binary.LittleEndian.Uint32(existing[20:])
	if err := r.ChunkSeek(start); err != nil {
		return err
	}
	hdrBuf := encodeHeader(c)
	if _, err := r.f.Write(hdrBuf); err != nil {
		return jlserr.Wrap("raw.WriteHeader", jlserr.ParameterInvalid, err)
	}
	return nil
}

// WritePayload rewrites the payload at the current position in place. The
// byte length is unchanged; data must be exactly the original
// payload_length.
func (r *File) WritePayload(data []byte) error {
	if _, err := r.f.Write(data); err != nil {
		return jlserr.Wrap("raw.WritePayload", jlserr.ParameterInvalid, err)
	}
	return nil
}

// Sync flushes the underlying file to stable storage.
func (r *File) Sync() error {
	return r.f.Sync()
}

// WriteRaw writes bytes verbatim at the current position, with no chunk
// framing. Used exactly once, for the fixed file-level header written
// ahead of the first chunk.
func (r *File) WriteRaw(buf []byte) error {
	if _, err := r.f.Write(buf); err != nil {
		return jlserr.Wrap("raw.WriteRaw", jlserr.ParameterInvalid, err)
	}
	return nil
}

// Size returns the current on-disk file size in bytes.
func (r *File) Size() (uint64, error) {
	info, err := r.f.Stat()
	if err != nil {
		return 0, jlserr.Wrap("raw.Size", jlserr.ParameterInvalid, err)
	}
	return uint64(info.Size()), nil
}
