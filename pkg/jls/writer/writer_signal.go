package writer

import (
	"log"

	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
)

// minSummaryDecimateFactor and minEntriesPerSummary are the floors spec.md
// §4.4 requires SignalDef to enforce, raising (and logging) rather than
// rejecting a caller's lower request.
const (
	minSummaryDecimateFactor = 10
	minEntriesPerSummary     = 1000
)

// SignalDef defines a signal descriptor and, for each of its legal tracks,
// writes a zero-payload DEF chunk and an initial all-zero HEAD chunk
// (spec.md §4.4).
func (w *Writer) SignalDef(sig directory.SignalDef) error {
	if w == nil || w.closed {
		return jlserr.New("writer.SignalDef", jlserr.ParameterInvalid)
	}
	if int(sig.SignalID) >= directory.SignalCount {
		return jlserr.Newf("writer.SignalDef", jlserr.ParameterInvalid, "signal_id %d out of range", sig.SignalID)
	}
	if w.signals[sig.SignalID] != nil {
		return jlserr.Newf("writer.SignalDef", jlserr.AlreadyExists, "signal %d", sig.SignalID)
	}
	if !w.sourceDefined[sig.SourceID] {
		return jlserr.Newf("writer.SignalDef", jlserr.NotFound, "source_id %d not defined", sig.SourceID)
	}
	if sig.SignalType != directory.SignalTypeFSR && sig.SignalType != directory.SignalTypeVSR {
		return jlserr.Newf("writer.SignalDef", jlserr.ParameterInvalid, "signal_type %d", sig.SignalType)
	}
	if sig.DataType != directory.DataTypeF32 {
		return jlserr.Newf("writer.SignalDef", jlserr.NotSupported, "data_type %d", sig.DataType)
	}
	if sig.SignalType == directory.SignalTypeFSR && sig.SampleRate == 0 {
		return jlserr.Newf("writer.SignalDef", jlserr.ParameterInvalid, "fsr signal %d requires sample_rate > 0", sig.SignalID)
	}
	if sig.SignalType == directory.SignalTypeVSR {
		sig.SampleRate = 0
	}
	if sig.SamplesPerData == 0 {
		sig.SamplesPerData = 1
	}
	if sig.SummaryDecimateFactor < minSummaryDecimateFactor {
		log.Printf("WARNING: jls writer: signal %d summary_decimate_factor %d raised to floor %d",
			sig.SignalID, sig.SummaryDecimateFactor, minSummaryDecimateFactor)
		sig.SummaryDecimateFactor = minSummaryDecimateFactor
	}
	if sig.EntriesPerSummary < minEntriesPerSummary {
		log.Printf("WARNING: jls writer: signal %d entries_per_summary %d raised to floor %d",
			sig.SignalID, sig.EntriesPerSummary, minEntriesPerSummary)
		sig.EntriesPerSummary = minEntriesPerSummary
	}

	w.scratch.Reset()
	if err := w.scratch.WriteU16(sig.SourceID); err != nil {
		return jlserr.Wrap("writer.SignalDef", jlserr.NotEnoughMemory, err)
	}
	if err := w.scratch.WriteU8(uint8(sig.SignalType)); err != nil {
		return jlserr.Wrap("writer.SignalDef", jlserr.NotEnoughMemory, err)
	}
	if err := w.scratch.WriteU8(0); err != nil { // rsv
		return jlserr.Wrap("writer.SignalDef", jlserr.NotEnoughMemory, err)
	}
	for _, v := range []uint32{
		uint32(sig.DataType),
		sig.SampleRate,
		sig.SamplesPerData,
		sig.SampleDecimateFactor,
		sig.SummaryDecimateFactor, // writer's field order: summary before entries
		sig.EntriesPerSummary,
		sig.UTCRateAuto,
	} {
		if err := w.scratch.WriteU32(v); err != nil {
			return jlserr.Wrap("writer.SignalDef", jlserr.NotEnoughMemory, err)
		}
	}
	if err := w.scratch.WriteZero(directory.SignalReservedBytes); err != nil {
		return jlserr.Wrap("writer.SignalDef", jlserr.NotEnoughMemory, err)
	}
	if err := w.scratch.WriteString(sig.Name); err != nil {
		return jlserr.Wrap("writer.SignalDef", jlserr.NotEnoughMemory, err)
	}
	if err := w.scratch.WriteString(sig.SIUnits); err != nil {
		return jlserr.Wrap("writer.SignalDef", jlserr.NotEnoughMemory, err)
	}

	payload := append([]byte(nil), w.scratch.Bytes()...)
	// signal_id has no field of its own in the payload (source_id there is
	// the signal's *source*, not its own id), so it rides in chunk_meta for
	// scan_signals to recover.
	if _, err := w.appendToChain(&w.signalChain, directory.TagSignalDef, sig.SignalID, payload); err != nil {
		return jlserr.Wrap("writer.SignalDef", jlserr.ParameterInvalid, err)
	}

	state := newSignalState(sig)
	w.signals[sig.SignalID] = state

	for _, track := range directory.LegalTracks(sig.SignalType) {
		ts := state.tracks[track]
		meta := directory.MakeChunkMeta(sig.SignalID, 0)

		defOff, err := w.appendToChain(&w.signalChain, directory.MakeTrackTag(track, directory.RoleDef), meta, nil)
		if err != nil {
			return jlserr.Wrap("writer.SignalDef", jlserr.ParameterInvalid, err)
		}
		ts.defOffset = defOff

		headOff, err := w.appendToChain(&w.signalChain, directory.MakeTrackTag(track, directory.RoleHead), meta,
			make([]byte, directory.SummaryLevelCount*8))
		if err != nil {
			return jlserr.Wrap("writer.SignalDef", jlserr.ParameterInvalid, err)
		}
		ts.headOffset = headOff
	}

	return nil
}
