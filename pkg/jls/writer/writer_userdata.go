package writer

import (
	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
)

// userData appends one USER_DATA chunk. storageType occupies the top
// nibble of chunk_meta; the low 12 bits are unused for this tag. Called
// once by Open with StorageTypeInvalid/nil to write the sentinel chunk
// spec.md §4.4 requires before any source/signal definitions, and
// available afterward as the public UserData operation.
func (w *Writer) userData(reserved uint16, storageType directory.StorageType, payload []byte) error {
	if w == nil || w.closed {
		return jlserr.New("writer.userData", jlserr.ParameterInvalid)
	}
	meta := reserved | (uint16(storageType) << 12)
	if _, err := w.appendToChain(&w.userDataChain, directory.TagUserData, meta, payload); err != nil {
		return jlserr.Wrap("writer.userData", jlserr.ParameterInvalid, err)
	}
	return nil
}

// UserData appends an application-defined USER_DATA chunk holding an
// arbitrary binary, string, or JSON blob (spec.md §4.4's storage_type
// discrimination, reused here since user-data shares the same
// binary/string/JSON encoding choice as annotations).
func (w *Writer) UserData(storageType directory.StorageType, payload []byte) error {
	if storageType == directory.StorageTypeInvalid {
		return jlserr.New("writer.UserData", jlserr.ParameterInvalid)
	}
	return w.userData(0, storageType, payload)
}
