package reader

import (
	"github.com/jetperch/jls-go/pkg/jls/directory"
	"github.com/jetperch/jls-go/pkg/jls/jlserr"
)

// UserDataEntry is one decoded USER_DATA chunk.
type UserDataEntry struct {
	StorageType directory.StorageType
	Payload     []byte
}

// UserDataReset rewinds the user-data cursor to the initial sentinel chunk
// (spec.md §4.5's user_data_reset).
func (r *Reader) UserDataReset() {
	r.userDataCursor = r.userDataHead
}

// UserDataNext follows item_next from the cached current user-data chunk
// and returns the next entry, or an Empty error at the end of the chain.
func (r *Reader) UserDataNext() (UserDataEntry, error) {
	if r.userDataCursor == 0 {
		return UserDataEntry{}, jlserr.New("reader.UserDataNext", jlserr.Empty)
	}
	c, _, err := r.readChunkAt(r.userDataCursor)
	if err != nil {
		return UserDataEntry{}, jlserr.Wrap("reader.UserDataNext", jlserr.ParameterInvalid, err)
	}
	if c.ItemNext == 0 {
		return UserDataEntry{}, jlserr.New("reader.UserDataNext", jlserr.Empty)
	}
	r.userDataCursor = c.ItemNext
	return decodeUserData(r, r.userDataCursor)
}

// UserDataPrev follows item_prev from the cached current user-data chunk.
// Crossing the initial sentinel returns Empty and resets the cursor
// (spec.md §4.5).
func (r *Reader) UserDataPrev() (UserDataEntry, error) {
	if r.userDataCursor == 0 {
		return UserDataEntry{}, jlserr.New("reader.UserDataPrev", jlserr.Empty)
	}
	c, _, err := r.readChunkAt(r.userDataCursor)
	if err != nil {
		return UserDataEntry{}, jlserr.Wrap("reader.UserDataPrev", jlserr.ParameterInvalid, err)
	}
	if c.ItemPrev == 0 || c.ItemPrev == r.userDataHead {
		r.UserDataReset()
		return UserDataEntry{}, jlserr.New("reader.UserDataPrev", jlserr.Empty)
	}
	r.userDataCursor = c.ItemPrev
	return decodeUserData(r, r.userDataCursor)
}

func decodeUserData(r *Reader, offset uint64) (UserDataEntry, error) {
	c, payload, err := r.readChunkAt(offset)
	if err != nil {
		return UserDataEntry{}, jlserr.Wrap("reader.decodeUserData", jlserr.ParameterInvalid, err)
	}
	storageType := directory.StorageType(c.ChunkMeta >> 12)
	body := append([]byte(nil), payload...)
	return UserDataEntry{StorageType: storageType, Payload: body}, nil
}
