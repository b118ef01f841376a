// Package directory holds the chunk-kind constants, tag encodings, and
// in-RAM record types shared between the writer and the reader. Keeping
// these in their own package avoids an import cycle: both pkg/jls/writer
// and pkg/jls/reader need the same tag arithmetic and descriptor shapes.
package directory

// SourceCount is the number of source-descriptor slots a file can hold.
// source_id 0 is reserved for the global annotation source.
const SourceCount = 256

// SignalCount is the number of signal-descriptor slots a file can hold.
// signal_id must fit in the 12-bit low field of chunk_meta, and signal_id 0
// is reserved for global VSR annotations.
const SignalCount = 4096

// SummaryLevelCount is the number of summary pyramid levels tracked per
// sample track's HEAD chunk.
const SummaryLevelCount = 8

// ChunkHeaderSize is the encoded size, in bytes, of a Chunk header.
const ChunkHeaderSize = 8 + 8 + 1 + 1 + 2 + 4 + 4 + 4

// StringTerminator is the two-byte sequence that ends a serialized string:
// NUL followed by Unit Separator, chosen so the reader can concatenate
// strings and still recognize boundaries even in binary payloads where a
// trailing NUL alone would be ambiguous.
var StringTerminator = [2]byte{0x00, 0x1F}

// SignalType discriminates fixed vs. variable sample rate signals.
type SignalType uint8

const (
	SignalTypeFSR SignalType = 0
	SignalTypeVSR SignalType = 1
)

// DataType identifies the sample encoding. Only F32 is implemented; other
// values are accepted by the type but rejected with NOT_SUPPORTED by the
// writer. The reader records whatever value the file holds.
type DataType uint32

const (
	DataTypeF32 DataType = 0
)

// TrackType indexes a signal's four logical tracks.
type TrackType uint8

const (
	TrackTypeFSR        TrackType = 0
	TrackTypeVSR        TrackType = 1
	TrackTypeAnnotation TrackType = 2
	TrackTypeUTC        TrackType = 3
)

// TrackCount is the number of TrackType values (fixed, small, closed set).
const TrackCount = 4

// TrackRole is the chunk role within a track: tag&7.
type TrackRole uint8

const (
	RoleDef     TrackRole = 0
	RoleHead    TrackRole = 1
	RoleIndex   TrackRole = 2
	RoleData    TrackRole = 3
	RoleSummary TrackRole = 4
)

// Tag is the 8-bit chunk-kind discriminant. Bits [2:0] hold the TrackRole
// for track-owned chunks, bits [4:3] hold the TrackType, and the
// container-level kinds (SourceDef, SignalDef, UserData) occupy the
// remaining high values so they never collide with a (role, track) pair.
type Tag uint8

const (
	TagSourceDef Tag = 0xF8
	TagSignalDef Tag = 0xF9
	TagUserData  Tag = 0xFA
)

// MakeTrackTag builds the tag byte for a (track, role) pair.
func MakeTrackTag(track TrackType, role TrackRole) Tag {
	return Tag((uint8(track) << 3) | uint8(role))
}

// Role extracts the track role from a track-owned tag.
func (t Tag) Role() TrackRole {
	return TrackRole(uint8(t) & 0x7)
}

// Track extracts the track type from a track-owned tag.
func (t Tag) Track() TrackType {
	return TrackType((uint8(t) >> 3) & 0x3)
}

// IsTrackTag reports whether t encodes a (track, role) pair rather than one
// of the three container-level kinds.
func (t Tag) IsTrackTag() bool {
	return t != TagSourceDef && t != TagSignalDef && t != TagUserData
}

// StorageType discriminates how a user-data or annotation body is encoded.
// It is carried in the top nibble of chunk_meta for user-data chunks.
type StorageType uint8

const (
	StorageTypeInvalid StorageType = 0
	StorageTypeBinary  StorageType = 1
	StorageTypeString  StorageType = 2
	StorageTypeJSON    StorageType = 3
)

// AnnotationType is a small closed enum carried in an annotation chunk's
// fixed prefix. The set is intentionally open-ended at the wire level
// (plain uint8) since annotation semantics are an application concern;
// this repo only defines the generic marker used by the CLI and tests.
type AnnotationType uint8

const (
	AnnotationTypeUser AnnotationType = 0
)

// SignalIDMask masks chunk_meta down to the 12-bit signal id field used by
// signal/track chunks.
const SignalIDMask = 0x0FFF

// SummaryLevelShift/Mask extract the summary depth from chunk_meta for
// track-owned sample chunks (bits [14:12]; levels run 0..SummaryLevelCount-1).
const (
	SummaryLevelShift = 12
	SummaryLevelMask  = 0x7
)

// CompressedSummaryBit is the chunk_meta bit reserved for the optional
// summary-payload compression hook (see writer.CompressionHook). It is the
// one bit spec.md's payload layouts leave genuinely unused across every
// chunk kind that carries chunk_meta, so it is reserved permanently for
// this single purpose rather than treated as a general extension slot.
const CompressedSummaryBit = 1 << 15

// MakeChunkMeta packs a signal id and summary level into a chunk_meta
// value for track sample/summary/index chunks.
func MakeChunkMeta(signalID uint16, level uint8) uint16 {
	return (signalID & SignalIDMask) | (uint16(level&SummaryLevelMask) << SummaryLevelShift)
}

// SplitChunkMeta is the inverse of MakeChunkMeta.
func SplitChunkMeta(meta uint16) (signalID uint16, level uint8) {
	return meta & SignalIDMask, uint8((meta >> SummaryLevelShift) & SummaryLevelMask)
}
