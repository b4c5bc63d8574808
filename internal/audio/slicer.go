package audio

import (
	"fmt"
	"math"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// Slice cuts the decoded master buffer into one WAV-encoded clip per
// segment. Sample indexes are floor(time * sampleRate); all channels are
// copied as-is with no resampling or mixing.
//
// Segments with a non-positive sample span are skipped and emit no clip.
// The output is compacted: callers pairing clips with script lines by index
// will see every pair after a skipped segment shift by one. That shift
// matches the historical import behavior, and fixing it here would re-cut
// old projects differently, so it stays.
func Slice(buf *beep.Buffer, segments []Segment) ([][]byte, error) {
	format := buf.Format()
	total := buf.Len()

	clips := make([][]byte, 0, len(segments))
	for _, seg := range segments {
		startSample := int(math.Floor(seg.Start * float64(format.SampleRate)))
		endSample := int(math.Floor(seg.End * float64(format.SampleRate)))

		if startSample < 0 {
			startSample = 0
		}
		if endSample > total {
			endSample = total
		}
		if endSample <= startSample {
			continue
		}

		clip, err := encodeWAV(buf.Streamer(startSample, endSample), format)
		if err != nil {
			return nil, fmt.Errorf("encode segment [%g, %g): %w", seg.Start, seg.End, err)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// encodeWAV renders a streamer into an in-memory WAV file.
func encodeWAV(s beep.Streamer, format beep.Format) ([]byte, error) {
	var ws writerSeeker
	if err := wav.Encode(&ws, s, format); err != nil {
		return nil, err
	}
	return ws.Bytes(), nil
}
