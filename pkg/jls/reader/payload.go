package reader

import "github.com/jetperch/jls-go/pkg/jls/jlserr"

// payloadBufferFloor is the minimum initial capacity spec.md §4.5 mandates
// for the reader's chunk payload buffer.
const payloadBufferFloor = 32 << 20 // 32 MiB

// payloadBuffer is a reusable, doubling-growth buffer for one chunk
// payload at a time. raw.File.ReadHeaderAndPayload reports TOO_BIG with
// the required size when the buffer is too small; grow and retry is the
// only response, mirroring the teacher's own retry-on-undersized-buffer
// pattern in its mmap read path.
type payloadBuffer struct {
	buf []byte
}

func newPayloadBuffer() *payloadBuffer {
	return &payloadBuffer{buf: make([]byte, payloadBufferFloor)}
}

// growTo doubles the buffer until it is at least needed bytes.
func (p *payloadBuffer) growTo(needed uint32) {
	n := len(p.buf)
	if n == 0 {
		n = payloadBufferFloor
	}
	for uint32(n) < needed {
		n *= 2
	}
	p.buf = make([]byte, n)
}

// growIfNeeded reports whether err is a TOO_BIG error and, if so, the
// required size it carries; callers grow and retry exactly once per TOO_BIG
// response, never looping unboundedly on a malformed file.
func growIfNeeded(err error) (needed uint32, isTooBig bool) {
	if jlserr.Is(err, jlserr.TooBig) {
		return jlserr.NeededBytes(err), true
	}
	return 0, false
}
