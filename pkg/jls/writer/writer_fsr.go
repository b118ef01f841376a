package writer

import (
	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
)

// FSRF32 appends n fixed-sample-rate float32 samples starting at sample_id
// (spec.md §4.4's fsr_f32 write path). Samples accumulate in the track's
// staging buffer; every time it reaches samples_per_data, a level-0 data
// chunk is emitted and its statistics cascade up the summary pyramid.
func (w *Writer) FSRF32(signalID uint16, sampleID uint64, data []float32) error {
	if w == nil || w.closed {
		return jlserr.New("writer.FSRF32", jlserr.ParameterInvalid)
	}
	if int(signalID) >= directory.SignalCount || w.signals[signalID] == nil {
		return jlserr.Newf("writer.FSRF32", jlserr.NotFound, "signal %d", signalID)
	}
	s := w.signals[signalID]
	if s.def.SignalType != directory.SignalTypeFSR {
		return jlserr.Newf("writer.FSRF32", jlserr.ParameterInvalid, "signal %d is not FSR", signalID)
	}
	ts := s.tracks[directory.TrackTypeFSR]

	for len(data) > 0 {
		if len(ts.sampleBuf) == 0 {
			ts.firstSampleID = sampleID
		}
		room := int(s.def.SamplesPerData) - len(ts.sampleBuf)
		take := len(data)
		if take > room {
			take = room
		}
		ts.sampleBuf = append(ts.sampleBuf, data[:take]...)
		data = data[take:]
		sampleID += uint64(take)

		if len(ts.sampleBuf) == int(s.def.SamplesPerData) {
			if err := w.flushFSRData(s, ts); err != nil {
				return jlserr.Wrap("writer.FSRF32", jlserr.ParameterInvalid, err)
			}
		}
	}
	return nil
}

// flushFSRData emits one level-0 data chunk from ts.sampleBuf and feeds its
// reduction into the level-1 accumulator.
func (w *Writer) flushFSRData(s *signalState, ts *trackState) error {
	count := len(ts.sampleBuf)
	if count == 0 {
		return nil
	}

	w.scratch.Reset()
	if err := w.scratch.WriteU64(ts.firstSampleID); err != nil {
		return err
	}
	if err := w.scratch.WriteU64(uint64(count)); err != nil {
		return err
	}
	for _, v := range ts.sampleBuf {
		if err := w.scratch.WriteF32(v); err != nil {
			return err
		}
	}
	payload := append([]byte(nil), w.scratch.Bytes()...)

	meta := directory.MakeChunkMeta(s.def.SignalID, 0)
	offset, err := w.appendToChain(&ts.dataChain, directory.MakeTrackTag(directory.TrackTypeFSR, directory.RoleData), meta, payload)
	if err != nil {
		return err
	}
	ts.headLevels[0] = offset
	if err := w.rewriteHeadPayload(ts.headOffset, ts.headLevels); err != nil {
		return err
	}

	entry := reduceSamples(ts.sampleBuf)
	idx := directory.IndexEntry{ChildTimestamp: ts.firstSampleID, ChildEntries: uint32(count), ChildOffset: offset}
	ts.sampleBuf = ts.sampleBuf[:0]

	return w.feedLevel(s, ts, 1, entry, idx)
}

// feedLevel pushes one (entry, index) pair into level's accumulator. When
// the accumulator reaches entries_per_summary it flushes a SUMMARY+INDEX
// chunk pair and, unless level is the top of the pyramid, recurses by
// feeding the just-flushed chunk's own reduction up to level+1.
func (w *Writer) feedLevel(s *signalState, ts *trackState, level int, entry directory.SummaryEntry, idx directory.IndexEntry) error {
	if level >= directory.SummaryLevelCount {
		return nil
	}
	ts.pending[level] = append(ts.pending[level], entry)
	ts.pendingIndex[level] = append(ts.pendingIndex[level], idx)
	if len(ts.pending[level]) == 1 {
		ts.pendingFirstID[level] = idx.ChildTimestamp
	}

	if uint32(len(ts.pending[level])) < s.def.EntriesPerSummary {
		return nil
	}
	return w.flushLevel(s, ts, level, false)
}

// flushLevel emits the SUMMARY+INDEX chunk pair currently accumulated at
// level, clears the accumulator, and (unless force-flushing the final
// partial group at the top level) cascades the chunk's own reduction to
// level+1. force is set only from flushFSRTail, to drain a short trailing
// group at Close time.
func (w *Writer) flushLevel(s *signalState, ts *trackState, level int, force bool) error {
	entries := ts.pending[level]
	indexes := ts.pendingIndex[level]
	if len(entries) == 0 {
		return nil
	}
	if !force && uint32(len(entries)) < s.def.EntriesPerSummary {
		return nil
	}

	firstID := ts.pendingFirstID[level]
	count := len(entries)

	// SUMMARY chunk.
	w.scratch.Reset()
	if err := w.scratch.WriteU64(firstID); err != nil {
		return err
	}
	if err := w.scratch.WriteU64(uint64(count)); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.scratch.WriteSummaryEntry(e); err != nil {
			return err
		}
	}
	summaryPayload := append([]byte(nil), w.scratch.Bytes()...)
	meta := directory.MakeChunkMeta(s.def.SignalID, uint8(level))
	summaryMeta := meta
	if compressed, wasCompressed := w.cfg.Compression.Compress(summaryPayload); wasCompressed {
		summaryPayload = compressed
		summaryMeta |= directory.CompressedSummaryBit
	}

	if _, err := w.appendToChain(&ts.summaryChain[level], directory.MakeTrackTag(directory.TrackTypeFSR, directory.RoleSummary), summaryMeta, summaryPayload); err != nil {
		return err
	}

	// INDEX chunk, written immediately after so the reader can recover
	// summaryOffset from index.PayloadPrevLength (spec.md §3's "linear
	// across all kinds" invariant applied within this one track/level).
	w.scratch.Reset()
	if err := w.scratch.WriteU64(firstID); err != nil {
		return err
	}
	if err := w.scratch.WriteU64(uint64(count)); err != nil {
		return err
	}
	for _, e := range indexes {
		if err := w.scratch.WriteIndexEntry(e); err != nil {
			return err
		}
	}
	indexPayload := append([]byte(nil), w.scratch.Bytes()...)
	indexOffset, err := w.appendToChain(&ts.indexChain[level], directory.MakeTrackTag(directory.TrackTypeFSR, directory.RoleIndex), meta, indexPayload)
	if err != nil {
		return err
	}

	w.cfg.Metrics.RecordSummaryEmission(level)
	ts.headLevels[level] = indexOffset
	if err := w.rewriteHeadPayload(ts.headOffset, ts.headLevels); err != nil {
		return err
	}

	ts.pending[level] = ts.pending[level][:0]
	ts.pendingIndex[level] = ts.pendingIndex[level][:0]

	parentEntry := reduceEntries(entries)
	parentIdx := directory.IndexEntry{ChildTimestamp: firstID, ChildEntries: uint32(count), ChildOffset: indexOffset}
	if force {
		return w.flushLevelForce(s, ts, level+1, parentEntry, parentIdx)
	}
	return w.feedLevel(s, ts, level+1, parentEntry, parentIdx)
}

// flushLevelForce is feedLevel's counterpart during Close: it pushes the
// entry then immediately force-flushes, so a short trailing group at every
// level above the first reaches disk instead of being silently dropped.
func (w *Writer) flushLevelForce(s *signalState, ts *trackState, level int, entry directory.SummaryEntry, idx directory.IndexEntry) error {
	if level >= directory.SummaryLevelCount {
		return nil
	}
	ts.pending[level] = append(ts.pending[level], entry)
	ts.pendingIndex[level] = append(ts.pendingIndex[level], idx)
	if len(ts.pending[level]) == 1 {
		ts.pendingFirstID[level] = idx.ChildTimestamp
	}
	return w.flushLevel(s, ts, level, true)
}

// flushFSRTail drains a signal's FSR track at Close: a partial sample
// buffer shorter than samples_per_data becomes a short final data chunk,
// and every level's partial accumulator is force-flushed in turn.
func (w *Writer) flushFSRTail(signalID uint16) error {
	s := w.signals[signalID]
	if s == nil {
		return nil
	}
	ts, ok := s.tracks[directory.TrackTypeFSR]
	if !ok {
		return nil
	}
	if len(ts.sampleBuf) > 0 {
		if err := w.flushFSRData(s, ts); err != nil {
			return err
		}
	}
	for level := 0; level < directory.SummaryLevelCount; level++ {
		if len(ts.pending[level]) == 0 {
			continue
		}
		if err := w.flushLevel(s, ts, level, true); err != nil {
			return err
		}
	}
	return nil
}
