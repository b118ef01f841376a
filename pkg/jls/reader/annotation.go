package reader

import "github.com/jetperch/jls-go/pkg/jls/jlserr"

// AnnotationNext is intentionally unimplemented: spec.md §9 flags
// annotation-read as an area where the only ground truth would be a
// cross-check against the original reader, which this repo does not have
// access to, and instructs leaving it as an explicit NOT_SUPPORTED stub
// rather than inventing descent/decode behavior. Annotation chunks are
// still fully writable (see writer.Annotation) and visible to a forward
// raw scan; only this convenience iterator is stubbed.
func (r *Reader) AnnotationNext(signalID uint16) error {
	return jlserr.New("reader.AnnotationNext", jlserr.NotSupported)
}
