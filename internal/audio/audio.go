// Package audio decodes master recordings into PCM buffers and cuts them
// into per-line segments. Decoding is the expensive step: a master file is
// decoded exactly once and the in-memory buffer is discarded as soon as its
// segments are cut.
package audio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"

	"github.com/scriptroom/scriptroom-server/pkg/audiometa"
)

// Segment is a half-open time interval into a master recording, in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Decode decodes a whole master file into a PCM buffer. The container is
// detected by magic bytes, not by file extension.
func Decode(data []byte, path string) (*beep.Buffer, error) {
	format, err := audiometa.DetectFormat(bytes.NewReader(data), int64(len(data)), path)
	if err != nil {
		return nil, err
	}

	var (
		streamer    beep.StreamSeekCloser
		audioFormat beep.Format
	)
	switch format {
	case audiometa.FormatWAV:
		streamer, audioFormat, err = wav.Decode(bytes.NewReader(data))
	case audiometa.FormatMP3:
		streamer, audioFormat, err = mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	default:
		return nil, fmt.Errorf("%s: no decoder for format %s", path, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(audioFormat)
	buf.Append(streamer)

	if streamer.Err() != nil {
		return nil, fmt.Errorf("decode %s: %w", path, streamer.Err())
	}
	return buf, nil
}
