package writer

import (
	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
)

// SourceDef defines a source descriptor (spec.md §4.4). source_id must be
// in range and unoccupied; source_id 0 ("global") is written once by Open
// and any later attempt to redefine it fails ALREADY_EXISTS like any other
// slot.
func (w *Writer) SourceDef(src directory.SourceDef) error {
	if w == nil || w.closed {
		return jlserr.New("writer.SourceDef", jlserr.ParameterInvalid)
	}
	if int(src.SourceID) >= directory.SourceCount {
		return jlserr.Newf("writer.SourceDef", jlserr.ParameterInvalid, "source_id %d out of range", src.SourceID)
	}
	if w.sourceDefined[src.SourceID] {
		return jlserr.Newf("writer.SourceDef", jlserr.AlreadyExists, "source %d", src.SourceID)
	}

	w.scratch.Reset()
	if err := w.scratch.WriteZero(directory.SourceReservedBytes); err != nil {
		return jlserr.Wrap("writer.SourceDef", jlserr.NotEnoughMemory, err)
	}
	for _, s := range []string{src.Name, src.Vendor, src.Model, src.Version, src.Serial} {
		if err := w.scratch.WriteString(s); err != nil {
			return jlserr.Wrap("writer.SourceDef", jlserr.NotEnoughMemory, err)
		}
	}

	payload := append([]byte(nil), w.scratch.Bytes()...)
	// source_id has no field in the payload itself (spec.md §6's source-def
	// layout is 64 reserved bytes plus the five strings), so it rides in
	// chunk_meta for scan_sources to recover.
	if _, err := w.appendToChain(&w.sourceChain, directory.TagSourceDef, src.SourceID, payload); err != nil {
		return jlserr.Wrap("writer.SourceDef", jlserr.ParameterInvalid, err)
	}

	w.sourceDefined[src.SourceID] = true
	w.sourceNames[src.SourceID] = src.Name
	return nil
}
