// Package mp3 parses MP3 master recordings: the leading ID3v2 tag (chapters
// and vendor cue frames) and enough of the first MPEG audio frame to report
// sample rate, channel count, and an estimated duration.
package mp3

import (
	"bytes"
	"time"

	"github.com/scriptroom/scriptroom-server/pkg/audiometa"
	"github.com/scriptroom/scriptroom-server/pkg/audiometa/id3"
	binutil "github.com/scriptroom/scriptroom-server/pkg/audiometa/internal/binary"
)

// Parse parses an in-memory MP3 file and extracts metadata.
func Parse(data []byte, path string) (*audiometa.Metadata, error) {
	size := int64(len(data))
	sr := binutil.NewSafeReader(bytes.NewReader(data), size, path)

	meta := &audiometa.Metadata{
		Format:   audiometa.FormatMP3,
		FileSize: size,
	}

	var tagSize int64
	tag, err := id3.ParseTag(sr, 0)
	if err != nil {
		// Not an ID3v2 file or parse error; try to find MPEG frames anyway.
		meta.AddWarning("ID3v2 parsing failed: %v", err)
	} else {
		tagSize = tag.Size
		meta.Chapters = tag.Chapters
		meta.VendorTags = tag.Vendor
		meta.Warnings = append(meta.Warnings, tag.Warnings...)
	}

	if err := parseTechnicalInfo(sr, tagSize, size, meta); err != nil {
		meta.AddWarning("failed to parse MP3 technical info: %v", err)
	}

	return meta, nil
}

// parseTechnicalInfo locates the first MPEG frame header after the tag and
// derives sample rate, channels, bitrate, and a CBR duration estimate.
func parseTechnicalInfo(sr *binutil.SafeReader, tagSize, fileSize int64, meta *audiometa.Metadata) error {
	offset, header, err := findFrameSync(sr, tagSize, fileSize)
	if err != nil {
		return err
	}

	info, ok := decodeFrameHeader(header)
	if !ok {
		return &audiometa.CorruptedFileError{
			Path:   sr.Path(),
			Offset: offset,
			Reason: "invalid MPEG frame header",
		}
	}

	meta.SampleRate = info.sampleRate
	meta.Channels = info.channels
	meta.BitRate = info.bitrate

	if info.bitrate > 0 {
		audioBytes := fileSize - tagSize
		seconds := float64(audioBytes*8) / float64(info.bitrate)
		meta.Duration = secondsToDuration(seconds)
	}
	return nil
}

// findFrameSync scans forward for the 11-bit frame sync. Export tools
// sometimes leave junk between the tag and the first frame.
func findFrameSync(sr *binutil.SafeReader, start, end int64) (int64, uint32, error) {
	const scanLimit = 1 << 16
	limit := end - 4
	if limit > start+scanLimit {
		limit = start + scanLimit
	}
	for offset := start; offset <= limit; offset++ {
		header, err := binutil.Read[uint32](sr, offset, "MPEG frame header")
		if err != nil {
			return 0, 0, err
		}
		if header&0xFFE00000 == 0xFFE00000 {
			return offset, header, nil
		}
	}
	return 0, 0, &audiometa.CorruptedFileError{
		Path:   sr.Path(),
		Offset: start,
		Reason: "no MPEG frame sync found",
	}
}

type frameInfo struct {
	bitrate    int // bits per second
	sampleRate int
	channels   int
}

// Bitrate table in kbps, indexed [versionIdx][bitrateIdx].
// versionIdx 0 = MPEG1 Layer III, 1 = MPEG2/2.5 Layer III.
var bitrateKbps = [2][16]int{
	{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
	{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
}

// Sample rate table indexed [version][sampleRateIdx].
var sampleRates = map[uint32][3]int{
	3: {44100, 48000, 32000}, // MPEG1
	2: {22050, 24000, 16000}, // MPEG2
	0: {11025, 12000, 8000},  // MPEG2.5
}

// decodeFrameHeader extracts Layer III parameters from a 32-bit frame header.
func decodeFrameHeader(header uint32) (frameInfo, bool) {
	version := header >> 19 & 0x3
	layer := header >> 17 & 0x3
	bitrateIdx := header >> 12 & 0xF
	sampleIdx := header >> 10 & 0x3
	channelMode := header >> 6 & 0x3

	if version == 1 || layer != 1 { // reserved version, or not Layer III
		return frameInfo{}, false
	}
	rates, ok := sampleRates[version]
	if !ok || sampleIdx == 3 || bitrateIdx == 0 || bitrateIdx == 15 {
		return frameInfo{}, false
	}

	versionIdx := 0
	if version != 3 {
		versionIdx = 1
	}

	channels := 2
	if channelMode == 3 { // mono
		channels = 1
	}

	return frameInfo{
		bitrate:    bitrateKbps[versionIdx][bitrateIdx] * 1000,
		sampleRate: rates[sampleIdx],
		channels:   channels,
	}, true
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
