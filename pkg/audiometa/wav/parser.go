// Package wav parses WAV master recordings: RIFF structure, cue-point
// markers, embedded ID3 tags, and XMP chunks left by audio export tools.
package wav

import (
	"bytes"
	"sort"
	"time"

	"github.com/scriptroom/scriptroom-server/pkg/audiometa"
	"github.com/scriptroom/scriptroom-server/pkg/audiometa/id3"
	binutil "github.com/scriptroom/scriptroom-server/pkg/audiometa/internal/binary"
)

// cuePoint is one entry of the RIFF "cue " chunk.
type cuePoint struct {
	id           uint32
	sampleOffset uint32
}

// Parse parses an in-memory WAV file and extracts metadata.
func Parse(data []byte, path string) (*audiometa.Metadata, error) {
	size := int64(len(data))
	sr := binutil.NewSafeReader(bytes.NewReader(data), size, path)

	head := make([]byte, 12)
	if err := sr.ReadAt(head, 0, "RIFF header"); err != nil {
		return nil, err
	}
	if string(head[0:4]) != "RIFF" || string(head[8:12]) != "WAVE" {
		return nil, &audiometa.UnsupportedFormatError{Path: path, Reason: "not a RIFF/WAVE file"}
	}

	meta := &audiometa.Metadata{
		Format:   audiometa.FormatWAV,
		FileSize: size,
	}

	var (
		byteRate uint32
		dataSize uint32
		cues     []cuePoint
		labels   = map[uint32]string{}
	)

	offset := int64(12)
	for offset+8 <= size {
		chunkID, err := binutil.ReadFourCC(sr, offset, "chunk ID")
		if err != nil {
			return nil, err
		}
		chunkSize, err := binutil.ReadLE[uint32](sr, offset+4, "chunk size")
		if err != nil {
			return nil, err
		}
		body := offset + 8
		if body+int64(chunkSize) > size {
			meta.AddWarning("chunk %q exceeds file size, stopping walk", chunkID)
			break
		}

		switch chunkID {
		case "fmt ":
			if err := parseFmtChunk(sr, body, chunkSize, meta, &byteRate); err != nil {
				return nil, err
			}
		case "data":
			dataSize = chunkSize
		case "cue ":
			cues, err = parseCueChunk(sr, body, chunkSize)
			if err != nil {
				meta.AddWarning("cue chunk unreadable: %v", err)
			}
		case "LIST":
			parseListChunk(sr, body, chunkSize, labels)
		case "id3 ", "ID3 ":
			tag, err := id3.ParseTag(sr, body)
			if err != nil {
				meta.AddWarning("embedded ID3 tag unreadable: %v", err)
			} else {
				meta.VendorTags = append(meta.VendorTags, tag.Vendor...)
				meta.Warnings = append(meta.Warnings, tag.Warnings...)
			}
		case "_PMX":
			raw := make([]byte, chunkSize)
			if err := sr.ReadAt(raw, body, "XMP chunk"); err == nil {
				meta.VendorTags = append(meta.VendorTags, audiometa.VendorTag{
					Kind: audiometa.TagXMPChunk,
					Raw:  bytes.TrimRight(raw, "\x00"),
				})
			}
		}

		// Chunks are word-aligned; odd sizes carry a pad byte.
		offset = body + int64(chunkSize) + int64(chunkSize&1)
	}

	if meta.SampleRate == 0 {
		return nil, &audiometa.CorruptedFileError{Path: path, Offset: 12, Reason: "missing fmt chunk"}
	}
	if byteRate > 0 && dataSize > 0 {
		meta.Duration = time.Duration(float64(dataSize) / float64(byteRate) * float64(time.Second))
	}

	meta.Chapters = cuesToChapters(cues, labels, meta.SampleRate, meta.Duration)
	return meta, nil
}

// parseFmtChunk reads channel count, sample rate, and byte rate.
func parseFmtChunk(sr *binutil.SafeReader, body int64, size uint32, meta *audiometa.Metadata, byteRate *uint32) error {
	if size < 16 {
		return &audiometa.CorruptedFileError{Path: sr.Path(), Offset: body, Reason: "fmt chunk too small"}
	}
	channels, err := binutil.ReadLE[uint16](sr, body+2, "channel count")
	if err != nil {
		return err
	}
	sampleRate, err := binutil.ReadLE[uint32](sr, body+4, "sample rate")
	if err != nil {
		return err
	}
	br, err := binutil.ReadLE[uint32](sr, body+8, "byte rate")
	if err != nil {
		return err
	}
	meta.Channels = int(channels)
	meta.SampleRate = int(sampleRate)
	*byteRate = br
	return nil
}

// parseCueChunk reads cue-point records (24 bytes each, sample offset last).
func parseCueChunk(sr *binutil.SafeReader, body int64, size uint32) ([]cuePoint, error) {
	count, err := binutil.ReadLE[uint32](sr, body, "cue count")
	if err != nil {
		return nil, err
	}
	if uint64(4+count*24) > uint64(size) {
		return nil, &audiometa.CorruptedFileError{Path: sr.Path(), Offset: body, Reason: "cue count exceeds chunk size"}
	}

	cues := make([]cuePoint, 0, count)
	for i := range int64(count) {
		rec := body + 4 + i*24
		cueID, err := binutil.ReadLE[uint32](sr, rec, "cue ID")
		if err != nil {
			return nil, err
		}
		sampleOffset, err := binutil.ReadLE[uint32](sr, rec+20, "cue sample offset")
		if err != nil {
			return nil, err
		}
		cues = append(cues, cuePoint{id: cueID, sampleOffset: sampleOffset})
	}
	return cues, nil
}

// parseListChunk collects "labl" names from an associated-data list so cue
// markers keep the names the engineer gave them.
func parseListChunk(sr *binutil.SafeReader, body int64, size uint32, labels map[uint32]string) {
	listType, err := binutil.ReadFourCC(sr, body, "LIST type")
	if err != nil || listType != "adtl" {
		return
	}

	offset := body + 4
	end := body + int64(size)
	for offset+8 <= end {
		subID, err := binutil.ReadFourCC(sr, offset, "adtl sub-chunk ID")
		if err != nil {
			return
		}
		subSize, err := binutil.ReadLE[uint32](sr, offset+4, "adtl sub-chunk size")
		if err != nil || offset+8+int64(subSize) > end {
			return
		}
		if subID == "labl" && subSize > 4 {
			cueID, err := binutil.ReadLE[uint32](sr, offset+8, "label cue ID")
			if err != nil {
				return
			}
			text := make([]byte, subSize-4)
			if err := sr.ReadAt(text, offset+12, "label text"); err == nil {
				labels[cueID] = string(bytes.TrimRight(text, "\x00"))
			}
		}
		offset += 8 + int64(subSize) + int64(subSize&1)
	}
}

// cuesToChapters converts cue points into bounded markers: each marker runs
// from its sample offset to the next one (the last runs to total duration).
func cuesToChapters(cues []cuePoint, labels map[uint32]string, sampleRate int, total time.Duration) []audiometa.Chapter {
	if len(cues) == 0 || sampleRate == 0 {
		return nil
	}
	sort.Slice(cues, func(i, j int) bool { return cues[i].sampleOffset < cues[j].sampleOffset })

	chapters := make([]audiometa.Chapter, len(cues))
	for i, c := range cues {
		start := time.Duration(float64(c.sampleOffset) / float64(sampleRate) * float64(time.Second))
		end := total
		if i+1 < len(cues) {
			end = time.Duration(float64(cues[i+1].sampleOffset) / float64(sampleRate) * float64(time.Second))
		}
		title := labels[c.id]
		chapters[i] = audiometa.Chapter{
			Index:     i + 1,
			Title:     title,
			StartTime: start,
			EndTime:   end,
		}
	}
	return chapters
}
