package audiometa

import (
	"io"

	"github.com/scriptroom/scriptroom-server/pkg/audiometa/internal/binary"
)

// Format represents the detected audio format
type Format int

const (
	FormatUnknown Format = iota
	FormatWAV
	FormatMP3
)

func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "WAV"
	case FormatMP3:
		return "MP3"
	default:
		return "Unknown"
	}
}

// DetectFormat determines whether data is a WAV or MP3 container by magic bytes.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if size < 12 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small to be WAV/MP3",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	head := make([]byte, 12)
	if err := sr.ReadAt(head, 0, "file magic"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}

	// RIFF....WAVE
	if string(head[0:4]) == "RIFF" && string(head[8:12]) == "WAVE" {
		return FormatWAV, nil
	}

	// ID3v2 tag prefix, or a bare MPEG frame sync (0xFFEx).
	if string(head[0:3]) == "ID3" {
		return FormatMP3, nil
	}
	if head[0] == 0xFF && head[1]&0xE0 == 0xE0 {
		return FormatMP3, nil
	}

	return FormatUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: "not a WAV or MP3 file",
	}
}
