package directory

// Chunk is the in-memory decode of a chunk header, shared verbatim between
// the raw layer, the writer, and the reader.
type Chunk struct {
	ItemNext          uint64
	ItemPrev          uint64
	Tag               Tag
	ChunkMeta         uint16
	PayloadLength     uint32
	PayloadPrevLength uint32
	CRC32             uint32
}

// SourceDef is a source descriptor: five UTF-8 strings plus its id.
type SourceDef struct {
	SourceID uint16 `validate:"-"`
	Name     string `validate:"required,max=256"`
	Vendor   string `validate:"max=256"`
	Model    string `validate:"max=256"`
	Version  string `validate:"max=256"`
	Serial   string `validate:"max=256"`
}

// SignalDef is a signal descriptor.
type SignalDef struct {
	SignalID              uint16     `validate:"-"`
	SourceID              uint16     `validate:"-"`
	SignalType            SignalType `validate:"-"`
	DataType              DataType   `validate:"-"`
	SampleRate            uint32     `validate:"-"`
	SamplesPerData        uint32     `validate:"required"`
	SampleDecimateFactor  uint32     `validate:"required"`
	EntriesPerSummary     uint32     `validate:"required"`
	SummaryDecimateFactor uint32     `validate:"required"`
	UTCRateAuto           uint32     `validate:"-"`
	Name                  string     `validate:"required,max=256"`
	SIUnits               string     `validate:"max=64"`
}

// SummaryEntry is the fixed-layout reduction stored in one entry of a
// level-k (k>=1) summary chunk. This concrete layout is what spec.md §4.4
// asks the implementer to define; it is shared so the writer's encode and
// the reader's decode never drift.
type SummaryEntry struct {
	Mean   float32
	Min    float32
	Max    float32
	StdDev float32
}

// SummaryEntrySize is the encoded byte size of one SummaryEntry.
const SummaryEntrySize = 4 * 4

// IndexEntry is one entry of a level-k (k>=1) INDEX chunk: the entry
// covers a child (level k-1) chunk, recording enough to resume a
// descent without re-reading the child's own header first.
type IndexEntry struct {
	ChildTimestamp uint64
	ChildEntries   uint32
	ChildOffset    uint64
}

// IndexEntrySize is the encoded byte size of one IndexEntry.
const IndexEntrySize = 8 + 4 + 8

// TrackChainRecord tracks the per-chain state the writer/reader keep for
// one (signal, track) pair: the DEF/HEAD chunk offsets, the per-level
// most-recently-added SUMMARY/INDEX offsets, and the DATA chain MRA.
type TrackChainRecord struct {
	DefOffset  uint64
	HeadOffset uint64

	// HeadLevels[level] is the offset of the most recent chunk at that
	// summary level, mirroring the on-disk HEAD payload.
	HeadLevels [SummaryLevelCount]uint64

	DataMRA    uint64
	DataHead   uint64
	SummaryMRA [SummaryLevelCount]uint64
	IndexMRA   [SummaryLevelCount]uint64
}

// AnnotationPrefix is the fixed prefix of every annotation data chunk's
// payload, preceding the variable-length body.
type AnnotationPrefix struct {
	Timestamp      uint64
	AnnotationType AnnotationType
	StorageType    StorageType
}

// AnnotationPrefixSize is the encoded size of AnnotationPrefix plus its
// 6 reserved bytes.
const AnnotationPrefixSize = 8 + 1 + 1 + 6

// UTCEntry maps one sample id to a UTC timestamp.
type UTCEntry struct {
	SampleID uint64
	UTC      int64
}

// UTCEntrySize is the encoded size of one UTCEntry.
const UTCEntrySize = 8 + 8

// DataChunkPrefixSize is the size of the (timestamp, count) prefix shared
// by level-0 data chunks and level-(>=1) summary chunks.
const DataChunkPrefixSize = 8 + 8

// SourceReservedBytes is the fixed reserved region preceding a source-def
// chunk's five strings.
const SourceReservedBytes = 64

// SignalReservedBytes is the fixed reserved region inside a signal-def
// chunk's payload, between the fixed numeric fields and the two strings.
//
// original_source/src/writer.c writes 68 reserved bytes (4 + 64) here; the
// reader in original_source/src/jls.c only skips 64. spec.md §9 leaves
// this an open question and instructs implementers to "align on one value
// (the writer's 68-byte reservation is the superset)". This repo's writer
// and reader both use 68, resolving the ambiguity in the writer's favor.
const SignalReservedBytes = 68

// LegalTracks lists which track types a signal of the given type may own,
// per spec.md §3: FSR signals get FSR+Annotation+UTC, VSR signals get
// VSR+Annotation.
func LegalTracks(st SignalType) []TrackType {
	switch st {
	case SignalTypeFSR:
		return []TrackType{TrackTypeFSR, TrackTypeAnnotation, TrackTypeUTC}
	case SignalTypeVSR:
		return []TrackType{TrackTypeVSR, TrackTypeAnnotation}
	default:
		return nil
	}
}
