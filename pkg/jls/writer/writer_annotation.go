package writer

import (
	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
)

// Annotation appends one annotation chunk to a signal's ANNOTATION track
// (spec.md §4.4): `timestamp:u64 | annotation_type:u8 | storage_type:u8 |
// 6 reserved | body`. Every signal type legally owns an ANNOTATION track
// (spec.md §3), including signal 0's reserved global-annotation track.
func (w *Writer) Annotation(signalID uint16, timestamp uint64, annotationType directory.AnnotationType, storageType directory.StorageType, body []byte) error {
	if w == nil || w.closed {
		return jlserr.New("writer.Annotation", jlserr.ParameterInvalid)
	}
	if int(signalID) >= directory.SignalCount || w.signals[signalID] == nil {
		return jlserr.Newf("writer.Annotation", jlserr.NotFound, "signal %d", signalID)
	}
	s := w.signals[signalID]
	ts, ok := s.tracks[directory.TrackTypeAnnotation]
	if !ok {
		return jlserr.Newf("writer.Annotation", jlserr.NotSupported, "signal %d has no annotation track", signalID)
	}

	w.scratch.Reset()
	if err := w.scratch.WriteU64(timestamp); err != nil {
		return jlserr.Wrap("writer.Annotation", jlserr.NotEnoughMemory, err)
	}
	if err := w.scratch.WriteU8(uint8(annotationType)); err != nil {
		return jlserr.Wrap("writer.Annotation", jlserr.NotEnoughMemory, err)
	}
	if err := w.scratch.WriteU8(uint8(storageType)); err != nil {
		return jlserr.Wrap("writer.Annotation", jlserr.NotEnoughMemory, err)
	}
	if err := w.scratch.WriteZero(6); err != nil {
		return jlserr.Wrap("writer.Annotation", jlserr.NotEnoughMemory, err)
	}
	if err := w.scratch.WriteBinary(body); err != nil {
		return jlserr.Wrap("writer.Annotation", jlserr.NotEnoughMemory, err)
	}
	payload := append([]byte(nil), w.scratch.Bytes()...)

	meta := directory.MakeChunkMeta(signalID, 0)
	offset, err := w.appendToChain(&ts.dataChain, directory.MakeTrackTag(directory.TrackTypeAnnotation, directory.RoleData), meta, payload)
	if err != nil {
		return jlserr.Wrap("writer.Annotation", jlserr.ParameterInvalid, err)
	}
	ts.headLevels[0] = offset
	return w.rewriteHeadPayload(ts.headOffset, ts.headLevels)
}

// UTC appends one (sample_id, utc) anchor to a signal's UTC track. FSR
// signals own a UTC track; VSR signals do not (spec.md §3).
func (w *Writer) UTC(signalID uint16, sampleID uint64, utc int64) error {
	if w == nil || w.closed {
		return jlserr.New("writer.UTC", jlserr.ParameterInvalid)
	}
	if int(signalID) >= directory.SignalCount || w.signals[signalID] == nil {
		return jlserr.Newf("writer.UTC", jlserr.NotFound, "signal %d", signalID)
	}
	s := w.signals[signalID]
	ts, ok := s.tracks[directory.TrackTypeUTC]
	if !ok {
		return jlserr.Newf("writer.UTC", jlserr.NotSupported, "signal %d has no utc track", signalID)
	}

	w.scratch.Reset()
	if err := w.scratch.WriteU64(sampleID); err != nil {
		return jlserr.Wrap("writer.UTC", jlserr.NotEnoughMemory, err)
	}
	if err := w.scratch.WriteI64(utc); err != nil {
		return jlserr.Wrap("writer.UTC", jlserr.NotEnoughMemory, err)
	}
	payload := append([]byte(nil), w.scratch.Bytes()...)

	meta := directory.MakeChunkMeta(signalID, 0)
	offset, err := w.appendToChain(&ts.dataChain, directory.MakeTrackTag(directory.TrackTypeUTC, directory.RoleData), meta, payload)
	if err != nil {
		return jlserr.Wrap("writer.UTC", jlserr.ParameterInvalid, err)
	}
	ts.headLevels[0] = offset
	return w.rewriteHeadPayload(ts.headOffset, ts.headLevels)
}
