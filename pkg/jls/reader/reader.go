// Package reader implements the JLS reader core (spec.md §4.5): it opens
// a file written by pkg/jls/writer, scans the three administrative chains
// to rebuild the source/signal directory in RAM, then serves length/seek/
// sample/statistics/user-data queries by walking the on-disk chunk chains.
package reader

import (
	"log"

	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
	"github.com/jetperch/jls-go/pkg/jls/metrics"
	"github.com/jetperch/jls-go/pkg/jls/raw"
	"github.com/jetperch/jls-go/pkg/jls/serialize"
)

// fileHeaderSize must match writer.fileHeaderSize; duplicated here rather
// than imported to avoid a reader->writer package dependency (the two
// packages share no code, only the wire format).
const fileHeaderSize = 32

// Config bundles optional collaborators. The zero Config is valid.
type Config struct {
	Metrics *metrics.Registry
}

// Reader is the JLS reader core.
type Reader struct {
	raw     *raw.File
	cfg     Config
	payload *payloadBuffer
	arena   *stringArena

	sourceDefined [directory.SourceCount]bool
	sources       [directory.SourceCount]directory.SourceDef

	signals [directory.SignalCount]*signalRecord

	sourceHead   uint64
	signalHead   uint64
	userDataHead uint64

	userDataCursor uint64 // current user-data chunk: the sentinel after Open/UserDataReset; 0 only when there is no user-data chain
}

// Open opens path read-only, scans its three administrative chains, and
// rebuilds the in-RAM source/signal directory (spec.md §4.5).
func Open(path string, cfg Config) (*Reader, error) {
	f, err := raw.Open(path, raw.ModeRead)
	if err != nil {
		return nil, err
	}
	r := &Reader{
		raw:     f,
		cfg:     cfg,
		payload: newPayloadBuffer(),
		arena:   newStringArena(),
	}
	if err := r.scan(); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := r.scanSources(); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := r.scanSignals(); err != nil {
		_ = f.Close()
		return nil, err
	}
	r.userDataCursor = r.userDataHead
	return r, nil
}

// Close releases the underlying file. Close on a nil *Reader is a no-op.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}
	return r.raw.Close()
}

// readChunkAt seeks to offset and reads its header+payload, growing the
// reader's payload buffer and retrying exactly once if it reports TOO_BIG.
// The returned payload slice aliases the reader's buffer and is only
// valid until the next readChunkAt call.
func (r *Reader) readChunkAt(offset uint64) (directory.Chunk, []byte, error) {
	if err := r.raw.ChunkSeek(offset); err != nil {
		return directory.Chunk{}, nil, err
	}
	c, payload, err := r.raw.ReadHeaderAndPayload(r.payload.buf)
	if needed, tooBig := growIfNeeded(err); tooBig {
		r.payload.growTo(needed)
		if err := r.raw.ChunkSeek(offset); err != nil {
			return directory.Chunk{}, nil, err
		}
		c, payload, err = r.raw.ReadHeaderAndPayload(r.payload.buf)
	}
	if err != nil {
		return directory.Chunk{}, nil, err
	}
	if r.cfg.Metrics != nil {
		r.cfg.Metrics.RecordChunkRead(tagLabel(c.Tag), len(payload))
	}
	return c, payload, nil
}

// scan walks forward from the first chunk after the file header,
// classifying each chunk's kind until all three administrative chain
// heads (source, signal, user-data) are located, or EOF (spec.md §4.5).
func (r *Reader) scan() error {
	offset := uint64(fileHeaderSize)
	found := 0
	examined := 0
	warned := false
	for found < 3 {
		c, _, err := r.readChunkAt(offset)
		if jlserr.Is(err, jlserr.Empty) {
			break
		}
		if err != nil {
			return jlserr.Wrap("reader.scan", jlserr.ParameterInvalid, err)
		}
		examined++
		if examined > 3 && !warned {
			log.Printf("WARNING: jls reader: scan has examined %d chunks without locating all administrative chains", examined)
			warned = true
		}

		switch c.Tag {
		case directory.TagUserData:
			if r.userDataHead == 0 {
				r.userDataHead = offset
				found++
			}
		case directory.TagSourceDef:
			if r.sourceHead == 0 {
				r.sourceHead = offset
				found++
			}
		case directory.TagSignalDef:
			if r.signalHead == 0 {
				r.signalHead = offset
				found++
			}
		}

		offset = offset + uint64(directory.ChunkHeaderSize) + uint64(c.PayloadLength)
	}
	return nil
}

// scanSources walks source_head.item_next, decoding each payload into the
// source table (spec.md §4.5).
func (r *Reader) scanSources() error {
	if r.sourceHead == 0 {
		return nil
	}
	offset := r.sourceHead
	for offset != 0 {
		c, payload, err := r.readChunkAt(offset)
		if err != nil {
			return jlserr.Wrap("reader.scanSources", jlserr.ParameterInvalid, err)
		}
		sourceID := c.ChunkMeta
		if int(sourceID) >= directory.SourceCount {
			log.Printf("WARNING: jls reader: source chunk at offset %d carries out-of-range source_id %d, skipped", offset, sourceID)
			offset = c.ItemNext
			continue
		}
		def, err := decodeSourceDef(r.arena, payload)
		if err != nil {
			log.Printf("WARNING: jls reader: malformed source-def at offset %d: %v", offset, err)
			offset = c.ItemNext
			continue
		}
		def.SourceID = sourceID
		r.sources[sourceID] = def
		r.sourceDefined[sourceID] = true
		offset = c.ItemNext
	}
	return nil
}

func decodeSourceDef(arena *stringArena, payload []byte) (directory.SourceDef, error) {
	d := serialize.NewDecoder(payload)
	if err := d.Skip(directory.SourceReservedBytes); err != nil {
		return directory.SourceDef{}, err
	}
	var def directory.SourceDef
	strs := make([]string, 5)
	for i := range strs {
		s, err := d.ReadString()
		if err != nil {
			return directory.SourceDef{}, err
		}
		strs[i] = arena.Intern(s)
	}
	def.Name, def.Vendor, def.Model, def.Version, def.Serial = strs[0], strs[1], strs[2], strs[3], strs[4]
	return def, nil
}

// scanSignals walks signal_head.item_next, dispatching on tag into the
// signal table and each signal's per-track records (spec.md §4.5).
func (r *Reader) scanSignals() error {
	if r.signalHead == 0 {
		return nil
	}
	offset := r.signalHead
	for offset != 0 {
		c, payload, err := r.readChunkAt(offset)
		if err != nil {
			return jlserr.Wrap("reader.scanSignals", jlserr.ParameterInvalid, err)
		}

		switch {
		case c.Tag == directory.TagSignalDef:
			signalID := c.ChunkMeta
			if int(signalID) >= directory.SignalCount {
				log.Printf("WARNING: jls reader: signal-def at offset %d carries out-of-range signal_id %d, skipped", offset, signalID)
				break
			}
			def, err := decodeSignalDef(r.arena, payload)
			if err != nil {
				log.Printf("WARNING: jls reader: malformed signal-def at offset %d: %v", offset, err)
				break
			}
			def.SignalID = signalID
			if !r.sourceDefined[def.SourceID] {
				log.Printf("WARNING: jls reader: signal %d references undefined source %d, skipped", signalID, def.SourceID)
				break
			}
			if def.SignalType != directory.SignalTypeFSR && def.SignalType != directory.SignalTypeVSR {
				log.Printf("WARNING: jls reader: signal %d has invalid signal_type %d, skipped", signalID, def.SignalType)
				break
			}
			r.signals[signalID] = &signalRecord{def: def, defined: true, tracks: make(map[directory.TrackType]*trackRecord)}

		case c.Tag.IsTrackTag():
			signalID, _ := directory.SplitChunkMeta(c.ChunkMeta)
			if int(signalID) >= directory.SignalCount || r.signals[signalID] == nil {
				break
			}
			s := r.signals[signalID]
			track := c.Tag.Track()
			ts, ok := s.tracks[track]
			if !ok {
				ts = &trackRecord{}
				s.tracks[track] = ts
			}
			switch c.Tag.Role() {
			case directory.RoleDef:
				ts.defOffset = offset
			case directory.RoleHead:
				ts.headOffset = offset
				levels, err := decodeHeadPayload(payload)
				if err != nil {
					log.Printf("WARNING: jls reader: malformed head payload at offset %d: %v", offset, err)
					break
				}
				ts.headLevels = levels
			}
		}

		offset = c.ItemNext
	}
	return nil
}

func decodeSignalDef(arena *stringArena, payload []byte) (directory.SignalDef, error) {
	d := serialize.NewDecoder(payload)
	var def directory.SignalDef
	var err error
	if def.SourceID, err = d.ReadU16(); err != nil {
		return def, err
	}
	st, err := d.ReadU8()
	if err != nil {
		return def, err
	}
	def.SignalType = directory.SignalType(st)
	if _, err := d.ReadU8(); err != nil { // rsv
		return def, err
	}
	dt, err := d.ReadU32()
	if err != nil {
		return def, err
	}
	def.DataType = directory.DataType(dt)
	if def.SampleRate, err = d.ReadU32(); err != nil {
		return def, err
	}
	if def.SamplesPerData, err = d.ReadU32(); err != nil {
		return def, err
	}
	if def.SampleDecimateFactor, err = d.ReadU32(); err != nil {
		return def, err
	}
	// Writer's field order: summary_decimate_factor before
	// entries_per_summary (spec.md §9's flagged writer/reader disagreement,
	// resolved in the writer's favor; see SPEC_FULL.md).
	if def.SummaryDecimateFactor, err = d.ReadU32(); err != nil {
		return def, err
	}
	if def.EntriesPerSummary, err = d.ReadU32(); err != nil {
		return def, err
	}
	if def.UTCRateAuto, err = d.ReadU32(); err != nil {
		return def, err
	}
	if err := d.Skip(directory.SignalReservedBytes); err != nil {
		return def, err
	}
	name, err := d.ReadString()
	if err != nil {
		return def, err
	}
	def.Name = arena.Intern(name)
	units, err := d.ReadString()
	if err != nil {
		return def, err
	}
	def.SIUnits = arena.Intern(units)
	return def, nil
}

func decodeHeadPayload(payload []byte) ([directory.SummaryLevelCount]uint64, error) {
	var levels [directory.SummaryLevelCount]uint64
	if len(payload) < directory.SummaryLevelCount*8 {
		return levels, jlserr.New("reader.decodeHeadPayload", jlserr.ParameterInvalid)
	}
	d := serialize.NewDecoder(payload)
	for i := range levels {
		v, err := d.ReadU64()
		if err != nil {
			return levels, err
		}
		levels[i] = v
	}
	return levels, nil
}

// Sources returns every defined source descriptor in id order.
func (r *Reader) Sources() []directory.SourceDef {
	out := make([]directory.SourceDef, 0, directory.SourceCount)
	for id, defined := range r.sourceDefined {
		if defined {
			out = append(out, r.sources[id])
		}
	}
	return out
}

// Signals returns every defined signal descriptor in id order.
func (r *Reader) Signals() []directory.SignalDef {
	out := make([]directory.SignalDef, 0, directory.SignalCount)
	for _, s := range r.signals {
		if s != nil && s.defined {
			out = append(out, s.def)
		}
	}
	return out
}

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
