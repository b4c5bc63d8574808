package audio

import (
	"fmt"
	"io"
)

// writerSeeker is an in-memory io.WriteSeeker. The WAV encoder needs to
// seek back to patch chunk sizes into the header after streaming samples,
// which bytes.Buffer cannot do.
type writerSeeker struct {
	buf []byte
	pos int
}

func (ws *writerSeeker) Write(p []byte) (int, error) {
	if need := ws.pos + len(p); need > len(ws.buf) {
		if need > cap(ws.buf) {
			grown := make([]byte, need, max(need, 2*cap(ws.buf)))
			copy(grown, ws.buf)
			ws.buf = grown
		} else {
			ws.buf = ws.buf[:need]
		}
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos += len(p)
	return len(p), nil
}

func (ws *writerSeeker) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(ws.pos) + offset
	case io.SeekEnd:
		pos = int64(len(ws.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative seek position %d", pos)
	}
	ws.pos = int(pos)
	return pos, nil
}

// Bytes returns the written data.
func (ws *writerSeeker) Bytes() []byte {
	return ws.buf
}
