package writer

import "github.com/jetperch/jls-go/pkg/jls/jlserr"

// VSRF32 is intentionally unimplemented. spec.md §9 flags VSR-write as an
// area with no ground truth to resolve against (the distillation gives a
// full FSR write path but never specifies the irregular-timestamp VSR
// wire layout), and instructs leaving it as an explicit NOT_SUPPORTED stub
// rather than inventing one. VSR signals may still be defined (SignalDef
// accepts SignalTypeVSR and allocates its DEF/HEAD chunks normally); only
// the sample write path is stubbed.
func (w *Writer) VSRF32(signalID uint16, timestamps []uint64, data []float32) error {
	return jlserr.New("writer.VSRF32", jlserr.NotSupported)
}
