package reader

import "github.com/jetperch/jls-go/pkg/jls/directory"

// trackRecord mirrors directory.TrackChainRecord for the reader side: the
// DEF/HEAD chunk offsets and the per-level most-recently-added offsets
// copied straight out of the HEAD chunk's own payload.
type trackRecord struct {
	defOffset  uint64
	headOffset uint64
	headLevels [directory.SummaryLevelCount]uint64
}

// signalRecord is the in-RAM decode of one signal's definition plus its
// per-track chain bookkeeping.
type signalRecord struct {
	def     directory.SignalDef
	defined bool
	tracks  map[directory.TrackType]*trackRecord
}
