package writer

import "github.com/jetperch/jls-go/pkg/jls/directory"

// trackState is the per-(signal, track) bookkeeping the writer keeps beyond
// what's on disk: the DEF/HEAD chain offsets plus, for FSR/VSR tracks, the
// in-progress level-0 sample buffer and the pending per-level reduction
// accumulators that feed the summary pyramid.
type trackState struct {
	track directory.TrackType

	defOffset  uint64
	headOffset uint64
	headLevels [directory.SummaryLevelCount]uint64

	dataChain    chain
	summaryChain [directory.SummaryLevelCount]chain
	indexChain   [directory.SummaryLevelCount]chain

	// sampleBuf accumulates raw f32 samples for the level-0 DATA chunk
	// currently being filled; flushed every SamplesPerData samples (or on
	// Close, as a short final chunk).
	sampleBuf []float32
	// firstSampleID is the sample id of sampleBuf[0], needed for the data
	// chunk's (timestamp, count) prefix.
	firstSampleID uint64

	// pending[level] accumulates the entries of the level-`level` SUMMARY
	// chunk being filled: for level 1, one reduction per level-0 data
	// chunk; above that, one per completed level-(level-1) summary chunk.
	// pending[0] is unused.
	pending [directory.SummaryLevelCount][]directory.SummaryEntry
	// pendingIndex[level] parallels pending[level] for levels this track
	// emits INDEX chunks at (level >= 1): the child chunk's own
	// (timestamp, count, offset) triple.
	pendingIndex [directory.SummaryLevelCount][]directory.IndexEntry
	// pendingFirstID[level] is the sample id covered by pending[level][0].
	pendingFirstID [directory.SummaryLevelCount]uint64
}

// signalState is the per-signal bookkeeping: its definition plus one
// trackState per legal track.
type signalState struct {
	def     directory.SignalDef
	defined bool

	tracks map[directory.TrackType]*trackState
}

func newSignalState(def directory.SignalDef) *signalState {
	s := &signalState{def: def, defined: true, tracks: make(map[directory.TrackType]*trackState)}
	for _, t := range directory.LegalTracks(def.SignalType) {
		s.tracks[t] = &trackState{track: t}
	}
	return s
}
