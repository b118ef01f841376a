// Package writer implements the JLS writer core (spec.md §4.4): it accepts
// source/signal definitions, appends sample blocks into fixed-size data
// chunks, maintains the chunk chains via header back-patching, and drives
// the summary pyramid.
package writer

import (
	"encoding/binary"
	"log"

	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/metrics"
	"github.com/jetperch/jls-go/pkg/jls/raw"
	"github.com/jetperch/jls-go/pkg/jls/serialize"
)

// fileHeaderSize is the fixed file-level header written once at Open,
// before any chunk. It exists only to keep offset 0 unambiguous as the
// "no chunk" sentinel the chunk header's item_next/item_prev fields use
// (spec.md §3): without it, the very first chunk in the file would sit at
// offset 0, colliding with that sentinel. original_source/include/jls/format.h
// carries an analogous jls_file_header_s ahead of the first chunk; this is
// a much smaller stand-in for it (a magic plus reserved padding), not a
// byte-for-byte port.
const fileHeaderSize = 32

var fileMagic = [8]byte{'J', 'L', 'S', 0x0D, 0x0A, 0x1A, 0xB2, 0x1C}

// chain tracks one doubly-linked item chain's most-recently-added chunk:
// its offset and the exact header bytes it was last written with, so a
// later append can seek back and patch just its item_next field.
type chain struct {
	mraOffset uint64
	mraHeader directory.Chunk
}

// Config bundles optional collaborators. The zero Config is valid: no
// metrics, no compression.
type Config struct {
	Metrics     *metrics.Registry
	Compression CompressionHook
}

// Writer is the JLS writer core.
type Writer struct {
	raw     *raw.File
	scratch *serialize.Buffer
	cfg     Config

	payloadPrevLength uint32

	sourceChain   chain
	signalChain   chain
	userDataChain chain

	sourceDefined [directory.SourceCount]bool
	sourceNames   [directory.SourceCount]string

	signals [directory.SignalCount]*signalState

	closed bool
}

// Open creates path (truncating any existing file) and writes the initial
// user-data sentinel chunk plus the reserved source 0 and signal 0
// definitions, per spec.md §4.4.
func Open(path string, cfg Config) (*Writer, error) {
	f, err := raw.Open(path, raw.ModeWrite)
	if err != nil {
		return nil, err
	}
	w := &Writer{
		raw:     f,
		scratch: serialize.NewBuffer(serialize.DefaultCapacity),
		cfg:     cfg,
	}
	if w.cfg.Compression == nil {
		w.cfg.Compression = NoCompression{}
	}

	if err := w.writeFileHeader(); err != nil {
		_ = f.Close()
		return nil, err
	}

	// Initial user-data sentinel: storage type INVALID, empty payload.
	if err := w.userData(0, directory.StorageTypeInvalid, nil); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := w.SourceDef(directory.SourceDef{SourceID: 0, Name: "global"}); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := w.SignalDef(directory.SignalDef{
		SignalID:              0,
		SourceID:              0,
		SignalType:            directory.SignalTypeVSR,
		DataType:              directory.DataTypeF32,
		SamplesPerData:        1,
		SampleDecimateFactor:  10,
		EntriesPerSummary:     1000,
		SummaryDecimateFactor: 10,
		Name:                  "annotation",
	}); err != nil {
		_ = f.Close()
		return nil, err
	}

	return w, nil
}

func (w *Writer) writeFileHeader() error {
	buf := make([]byte, fileHeaderSize)
	copy(buf, fileMagic[:])
	if err := w.raw.WriteRaw(buf); err != nil {
		return err
	}
	return nil
}

// Close flushes any partial sample buffer as a short final data chunk,
// emits any partial summaries similarly, and closes the raw layer.
func (w *Writer) Close() error {
	if w == nil || w.closed {
		return nil
	}
	w.closed = true

	for id := range w.signals {
		s := w.signals[id]
		if s == nil || !s.defined {
			continue
		}
		if s.def.SignalType == directory.SignalTypeFSR {
			if err := w.flushFSRTail(uint16(id)); err != nil {
				log.Printf("WARNING: jls writer: flushing tail of signal %d: %v", id, err)
			}
		}
	}

	if err := w.raw.Sync(); err != nil {
		log.Printf("WARNING: jls writer: sync on close: %v", err)
	}
	return w.raw.Close()
}

// appendToChain writes a chunk at the current position as the new tail of
// ch, back-patches the previous tail's item_next, and records the chunk's
// payload length as the next chunk's payload_prev_length baseline
// (spec.md §3: linear across all kinds, not per-chain).
func (w *Writer) appendToChain(ch *chain, tag directory.Tag, meta uint16, payload []byte) (uint64, error) {
	offset, err := w.raw.ChunkTell()
	if err != nil {
		return 0, err
	}
	c := directory.Chunk{
		ItemPrev:          ch.mraOffset,
		ItemNext:          0,
		Tag:               tag,
		ChunkMeta:         meta,
		PayloadPrevLength: w.payloadPrevLength,
	}
	if err := w.raw.Write(c, payload); err != nil {
		return 0, err
	}
	w.payloadPrevLength = uint32(len(payload))
	endOffset := offset + uint64(directory.ChunkHeaderSize) + uint64(len(payload))

	if ch.mraOffset != 0 {
		if err := w.raw.ChunkSeek(ch.mraOffset); err != nil {
			return 0, err
		}
		patched := ch.mraHeader
		patched.ItemNext = offset
		if err := w.raw.WriteHeader(patched); err != nil {
			return 0, err
		}
		if err := w.raw.ChunkSeek(endOffset); err != nil {
			return 0, err
		}
	}

	c.PayloadLength = uint32(len(payload))
	ch.mraOffset = offset
	ch.mraHeader = c
	w.cfg.Metrics.RecordChunkWritten(tagLabel(tag), len(payload))
	return offset, nil
}

// tagLabel renders a Tag as a low-cardinality metrics label.
func tagLabel(tag directory.Tag) string {
	switch tag {
	case directory.TagSourceDef:
		return "source_def"
	case directory.TagSignalDef:
		return "signal_def"
	case directory.TagUserData:
		return "user_data"
	default:
		roles := [...]string{"def", "head", "index", "data", "summary"}
		tracks := [...]string{"fsr", "vsr", "annotation", "utc"}
		return tracks[tag.Track()] + "_" + roles[tag.Role()]
	}
}

// rewriteHeadPayload rewrites a track's HEAD chunk payload in place. offset
// must be the HEAD chunk's own offset (its header never changes, only the
// SUMMARY_LEVEL_COUNT offsets that follow it).
func (w *Writer) rewriteHeadPayload(headOffset uint64, levels [directory.SummaryLevelCount]uint64) error {
	buf := make([]byte, directory.SummaryLevelCount*8)
	for i, v := range levels {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	if err := w.raw.ChunkSeek(headOffset + uint64(directory.ChunkHeaderSize)); err != nil {
		return err
	}
	if err := w.raw.WritePayload(buf); err != nil {
		return err
	}
	// Restore the cursor at end of file for subsequent appends.
	end, err := w.raw.Size()
	if err != nil {
		return err
	}
	return w.raw.ChunkSeek(end)
}
