package reader

import (
	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
	"github.com/jetperch/jls-go/pkg/jls/jlssnappy"
	"github.com/jetperch/jls-go/pkg/jls/serialize"
)

func (r *Reader) fsrTrack(signalID uint16) (*signalRecord, *trackRecord, error) {
	if int(signalID) >= directory.SignalCount || r.signals[signalID] == nil {
		return nil, nil, jlserr.Newf("reader", jlserr.NotFound, "signal %d", signalID)
	}
	s := r.signals[signalID]
	if s.def.SignalType != directory.SignalTypeFSR {
		return nil, nil, jlserr.Newf("reader", jlserr.ParameterInvalid, "signal %d is not FSR", signalID)
	}
	ts, ok := s.tracks[directory.TrackTypeFSR]
	if !ok {
		return nil, nil, jlserr.Newf("reader", jlserr.NotFound, "signal %d has no fsr track", signalID)
	}
	return s, ts, nil
}

// highestNonZeroLevel returns the highest summary level with a non-zero
// HEAD offset, or -1 if the track has no data at all.
func highestNonZeroLevel(ts *trackRecord) int {
	for level := directory.SummaryLevelCount - 1; level >= 0; level-- {
		if ts.headLevels[level] != 0 {
			return level
		}
	}
	return -1
}

func decodeDataPrefix(payload []byte) (timestamp, count uint64, err error) {
	d := serialize.NewDecoder(payload)
	if timestamp, err = d.ReadU64(); err != nil {
		return 0, 0, err
	}
	if count, err = d.ReadU64(); err != nil {
		return 0, 0, err
	}
	return timestamp, count, nil
}

func decodeIndexPayload(payload []byte) (timestamp, count uint64, entries []directory.IndexEntry, err error) {
	d := serialize.NewDecoder(payload)
	if timestamp, err = d.ReadU64(); err != nil {
		return 0, 0, nil, err
	}
	if count, err = d.ReadU64(); err != nil {
		return 0, 0, nil, err
	}
	entries = make([]directory.IndexEntry, count)
	for i := range entries {
		if entries[i], err = d.ReadIndexEntry(); err != nil {
			return 0, 0, nil, err
		}
	}
	return timestamp, count, entries, nil
}

func decodeSummaryPayload(meta uint16, payload []byte) (timestamp, count uint64, entries []directory.SummaryEntry, err error) {
	if meta&directory.CompressedSummaryBit != 0 {
		payload, err = jlssnappy.Decompress(payload)
		if err != nil {
			return 0, 0, nil, jlserr.Wrap("reader.decodeSummaryPayload", jlserr.ParameterInvalid, err)
		}
	}
	d := serialize.NewDecoder(payload)
	if timestamp, err = d.ReadU64(); err != nil {
		return 0, 0, nil, err
	}
	if count, err = d.ReadU64(); err != nil {
		return 0, 0, nil, err
	}
	entries = make([]directory.SummaryEntry, count)
	for i := range entries {
		if entries[i], err = d.ReadSummaryEntry(); err != nil {
			return 0, 0, nil, err
		}
	}
	return timestamp, count, entries, nil
}

// FSRLength returns the total number of samples written to signal_id's FSR
// track (spec.md §4.5's fsr_length).
func (r *Reader) FSRLength(signalID uint16) (uint64, error) {
	_, ts, err := r.fsrTrack(signalID)
	if err != nil {
		return 0, err
	}
	level := highestNonZeroLevel(ts)
	if level < 0 {
		return 0, nil
	}
	offset := ts.headLevels[level]
	for level > 0 {
		c, payload, err := r.readChunkAt(offset)
		if err != nil {
			return 0, jlserr.Wrap("reader.FSRLength", jlserr.ParameterInvalid, err)
		}
		_, _, entries, err := decodeIndexPayload(payload)
		if err != nil || len(entries) == 0 {
			return 0, jlserr.Newf("reader.FSRLength", jlserr.ParameterInvalid, "empty index chunk at offset %d", offset)
		}
		_ = c
		offset = entries[len(entries)-1].ChildOffset
		level--
	}
	c, payload, err := r.readChunkAt(offset)
	if err != nil {
		return 0, jlserr.Wrap("reader.FSRLength", jlserr.ParameterInvalid, err)
	}
	_ = c
	timestamp, count, err := decodeDataPrefix(payload)
	if err != nil {
		return 0, jlserr.Wrap("reader.FSRLength", jlserr.ParameterInvalid, err)
	}
	return timestamp + count, nil
}

// FSRLevelCount returns the number of summary-pyramid levels signal_id's
// FSR track currently has data at, counting level 0 itself (the highest
// populated level plus one). Used by cmd/jls-inspect to describe a signal's
// shape.
func (r *Reader) FSRLevelCount(signalID uint16) (int, error) {
	_, ts, err := r.fsrTrack(signalID)
	if err != nil {
		return 0, err
	}
	return highestNonZeroLevel(ts) + 1, nil
}

// Seek descends signal_id's FSR pyramid from the highest populated level
// to targetLevel, choosing at each level the child covering sampleID, and
// returns the resulting chunk's file offset (spec.md §4.5's seek).
//
// Each INDEX entry already carries its own child_timestamp, so descent
// picks the last entry whose child_timestamp <= sampleID; no step size is
// computed from the signal's decimation factors, which the writer's
// pyramid layout does not use.
func (r *Reader) Seek(signalID uint16, targetLevel uint8, sampleID uint64) (uint64, error) {
	_, ts, err := r.fsrTrack(signalID)
	if err != nil {
		return 0, err
	}
	level := highestNonZeroLevel(ts)
	if level < 0 {
		return 0, jlserr.New("reader.Seek", jlserr.Empty)
	}
	descentLevels := 0
	offset := ts.headLevels[level]
	for level > int(targetLevel) {
		_, payload, err := r.readChunkAt(offset)
		if err != nil {
			return 0, jlserr.Wrap("reader.Seek", jlserr.ParameterInvalid, err)
		}
		_, _, entries, err := decodeIndexPayload(payload)
		if err != nil || len(entries) == 0 {
			return 0, jlserr.Newf("reader.Seek", jlserr.ParameterInvalid, "empty index chunk at offset %d", offset)
		}
		chosen := entries[0]
		for _, e := range entries {
			if e.ChildTimestamp <= sampleID {
				chosen = e
			} else {
				break
			}
		}
		offset = chosen.ChildOffset
		level--
		descentLevels++
	}
	if r.cfg.Metrics != nil {
		r.cfg.Metrics.RecordSeek(descentLevels)
	}
	return offset, nil
}

// FSRF32 reads n samples starting at startSampleID into out (spec.md
// §4.5's fsr_f32 read path): seeks to level 0, then walks forward through
// the data chain via each chunk's own item_next.
func (r *Reader) FSRF32(signalID uint16, startSampleID uint64, out []float32) error {
	if len(out) == 0 {
		return nil
	}
	offset, err := r.Seek(signalID, 0, startSampleID)
	if err != nil {
		return err
	}
	remaining := out
	for len(remaining) > 0 && offset != 0 {
		c, payload, err := r.readChunkAt(offset)
		if err != nil {
			return jlserr.Wrap("reader.FSRF32", jlserr.ParameterInvalid, err)
		}
		timestamp, count, err := decodeDataPrefix(payload)
		if err != nil {
			return jlserr.Wrap("reader.FSRF32", jlserr.ParameterInvalid, err)
		}
		d := serialize.NewDecoder(payload[directory.DataChunkPrefixSize:])
		idx := uint64(0)
		if startSampleID > timestamp {
			idx = startSampleID - timestamp
		}
		avail := count - idx
		if avail > uint64(len(remaining)) {
			avail = uint64(len(remaining))
		}
		if err := d.Skip(int(idx) * 4); err != nil {
			return jlserr.Wrap("reader.FSRF32", jlserr.ParameterInvalid, err)
		}
		for i := uint64(0); i < avail; i++ {
			v, err := d.ReadF32()
			if err != nil {
				return jlserr.Wrap("reader.FSRF32", jlserr.ParameterInvalid, err)
			}
			remaining[i] = v
		}
		remaining = remaining[avail:]
		offset = c.ItemNext
	}
	if len(remaining) > 0 {
		return jlserr.New("reader.FSRF32", jlserr.Empty)
	}
	return nil
}

// StatsEntry is one bucket of an FSRStatistics query result.
type StatsEntry struct {
	StartSampleID uint64
	Mean          float32
	Min           float32
	Max           float32
	Std           float32
}

// entryWidth returns the number of raw samples one level-L summary entry
// covers, under this writer's one-entry-per-child-chunk pyramid: level 1
// covers one data chunk (samples_per_data samples); each level above that
// covers entries_per_summary entries' worth of the level below.
func entryWidth(def directory.SignalDef, level int) uint64 {
	width := uint64(def.SamplesPerData)
	for l := 1; l < level; l++ {
		width *= uint64(def.EntriesPerSummary)
	}
	return width
}

// FSRStatistics divides [startSampleID, startSampleID+sampleCount) into
// statsCount buckets and returns one reduction per bucket, reading the
// coarsest summary level whose entries are no wider than one bucket. This
// is the range-statistics query spec.md's Purpose section names but never
// gives an operation signature for; see SPEC_FULL.md §4.5.
func (r *Reader) FSRStatistics(signalID uint16, startSampleID, sampleCount uint64, statsCount uint32) ([]StatsEntry, error) {
	s, ts, err := r.fsrTrack(signalID)
	if err != nil {
		return nil, err
	}
	top := highestNonZeroLevel(ts)
	if top < 1 || statsCount == 0 || sampleCount == 0 {
		return nil, nil
	}

	bucketWidth := sampleCount / uint64(statsCount)
	if bucketWidth == 0 {
		bucketWidth = 1
	}
	chosen := 1
	for level := 2; level <= top; level++ {
		if entryWidth(s.def, level) <= bucketWidth {
			chosen = level
		} else {
			break
		}
	}

	endSampleID := startSampleID + sampleCount
	var results []StatsEntry
	offset := ts.headLevels[chosen]
	for offset != 0 {
		c, indexPayload, err := r.readChunkAt(offset)
		if err != nil {
			return nil, jlserr.Wrap("reader.FSRStatistics", jlserr.ParameterInvalid, err)
		}
		_, _, indexEntries, err := decodeIndexPayload(indexPayload)
		if err != nil {
			return nil, jlserr.Wrap("reader.FSRStatistics", jlserr.ParameterInvalid, err)
		}
		summaryOffset := offset - uint64(directory.ChunkHeaderSize) - uint64(c.PayloadPrevLength)
		sc, summaryPayload, err := r.readChunkAt(summaryOffset)
		if err != nil {
			return nil, jlserr.Wrap("reader.FSRStatistics", jlserr.ParameterInvalid, err)
		}
		_, _, summaryEntries, err := decodeSummaryPayload(sc.ChunkMeta, summaryPayload)
		if err != nil {
			return nil, jlserr.Wrap("reader.FSRStatistics", jlserr.ParameterInvalid, err)
		}

		oldestRelevant := false
		width := entryWidth(s.def, chosen)
		for i := len(indexEntries) - 1; i >= 0; i-- {
			ie := indexEntries[i]
			childStart := ie.ChildTimestamp
			childEnd := childStart + width
			if childEnd <= startSampleID {
				oldestRelevant = true
				continue
			}
			if childStart >= endSampleID || i >= len(summaryEntries) {
				continue
			}
			e := summaryEntries[i]
			results = append(results, StatsEntry{StartSampleID: childStart, Mean: e.Mean, Min: e.Min, Max: e.Max, Std: e.StdDev})
		}
		if oldestRelevant {
			break
		}
		offset = c.ItemPrev
	}

	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}
