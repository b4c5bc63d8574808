// Package id3 parses ID3v2.3/2.4 tags: chapter (CHAP) frames plus the
// private/user-text frames that vendor tools use to embed cue-point
// documents. It is shared by the MP3 parser and the WAV parser (WAV files
// can carry an ID3 tag inside a RIFF "id3 " chunk).
package id3

import (
	"bytes"
	"fmt"
	"sort"
	"time"
	"unicode/utf16"

	"github.com/scriptroom/scriptroom-server/pkg/audiometa"
	"github.com/scriptroom/scriptroom-server/pkg/audiometa/internal/binary"
)

// Text encoding bytes used by ID3v2 frames.
const (
	encLatin1  = 0
	encUTF16   = 1 // with BOM
	encUTF16BE = 2
	encUTF8    = 3
)

// Tag is a parsed ID3v2 tag.
type Tag struct {
	Version  byte  // major version (3 or 4)
	Size     int64 // total tag size including the 10-byte header
	Chapters []audiometa.Chapter
	Vendor   []audiometa.VendorTag
	Warnings []string
}

// ParseTag parses an ID3v2 tag starting at offset. Unknown and malformed
// frames are skipped with a warning; only a broken tag header is an error.
func ParseTag(sr *binary.SafeReader, offset int64) (*Tag, error) {
	magic := make([]byte, 3)
	if err := sr.ReadAt(magic, offset, "ID3 magic"); err != nil {
		return nil, err
	}
	if string(magic) != "ID3" {
		return nil, fmt.Errorf("%s: no ID3v2 tag at offset %d", sr.Path(), offset)
	}

	major, err := binary.Read[uint8](sr, offset+3, "ID3 version")
	if err != nil {
		return nil, err
	}
	if major != 3 && major != 4 {
		return nil, fmt.Errorf("%s: unsupported ID3v2.%d tag", sr.Path(), major)
	}

	flags, err := binary.Read[uint8](sr, offset+5, "ID3 flags")
	if err != nil {
		return nil, err
	}

	tagSize, err := binary.ReadSyncsafe(sr, offset+6, "ID3 tag size")
	if err != nil {
		return nil, err
	}

	tag := &Tag{
		Version: major,
		Size:    int64(tagSize) + 10,
	}

	pos := offset + 10
	end := offset + tag.Size

	// Skip the extended header if present. v2.3 sizes exclude the four
	// size bytes themselves; v2.4 sizes include them.
	if flags&0x40 != 0 {
		extSize, err := readFrameSize(sr, pos, major, "extended header size")
		if err != nil {
			return nil, err
		}
		if major == 3 {
			pos += int64(extSize) + 4
		} else {
			pos += int64(extSize)
		}
	}

	for pos+10 <= end {
		frameID, err := binary.ReadFourCC(sr, pos, "frame ID")
		if err != nil {
			break
		}
		if frameID[0] == 0 {
			break // padding
		}

		frameSize, err := readFrameSize(sr, pos+4, major, "frame size")
		if err != nil {
			break
		}
		if frameSize == 0 || pos+10+int64(frameSize) > end {
			tag.Warnings = append(tag.Warnings, fmt.Sprintf("frame %s has invalid size %d, stopping", frameID, frameSize))
			break
		}

		body := make([]byte, frameSize)
		if err := sr.ReadAt(body, pos+10, "frame "+frameID); err != nil {
			tag.Warnings = append(tag.Warnings, fmt.Sprintf("frame %s unreadable: %v", frameID, err))
			break
		}

		switch frameID {
		case "CHAP":
			if ch, ok := parseChapFrame(body); ok {
				tag.Chapters = append(tag.Chapters, ch)
			} else {
				tag.Warnings = append(tag.Warnings, "malformed CHAP frame skipped")
			}
		case "PRIV":
			owner, payload := splitNullTerminated(body)
			tag.Vendor = append(tag.Vendor, audiometa.VendorTag{
				Kind:  audiometa.TagPriv,
				Owner: owner,
				Raw:   payload,
			})
		case "TXXX":
			if len(body) > 1 {
				desc, value := splitEncodedPair(body[0], body[1:])
				tag.Vendor = append(tag.Vendor, audiometa.VendorTag{
					Kind:  audiometa.TagUserText,
					Owner: desc,
					Raw:   []byte(value),
				})
			}
		}

		pos += 10 + int64(frameSize)
	}

	finalizeChapters(tag)
	return tag, nil
}

// readFrameSize reads a frame size in the version's encoding: plain
// big-endian for v2.3, syncsafe for v2.4.
func readFrameSize(sr *binary.SafeReader, offset int64, major uint8, what string) (uint32, error) {
	if major == 4 {
		return binary.ReadSyncsafe(sr, offset, what)
	}
	return binary.Read[uint32](sr, offset, what)
}

// parseChapFrame decodes a CHAP frame body: element ID, start/end in
// milliseconds, two byte offsets, then optional embedded subframes.
func parseChapFrame(body []byte) (audiometa.Chapter, bool) {
	var ch audiometa.Chapter

	elementEnd := bytes.IndexByte(body, 0)
	if elementEnd < 0 || len(body) < elementEnd+1+16 {
		return ch, false
	}
	rest := body[elementEnd+1:]

	startMs := be32(rest[0:4])
	endMs := be32(rest[4:8])
	// rest[8:16] are byte offsets, unused.

	ch.Title = string(body[:elementEnd])
	ch.StartTime = time.Duration(startMs) * time.Millisecond
	ch.EndTime = time.Duration(endMs) * time.Millisecond

	// A TIT2 subframe overrides the element ID as the display title.
	if title, ok := findSubframeTitle(rest[16:]); ok {
		ch.Title = title
	}
	return ch, true
}

// findSubframeTitle scans CHAP subframes for TIT2.
func findSubframeTitle(sub []byte) (string, bool) {
	pos := 0
	for pos+10 <= len(sub) {
		frameID := string(sub[pos : pos+4])
		size := int(be32(sub[pos+4 : pos+8]))
		if size <= 0 || pos+10+size > len(sub) {
			return "", false
		}
		if frameID == "TIT2" && size > 1 {
			body := sub[pos+10 : pos+10+size]
			return decodeText(body[0], body[1:]), true
		}
		pos += 10 + size
	}
	return "", false
}

// finalizeChapters orders chapters by start time, assigns indexes, and
// fills a missing end time with the next chapter's start.
func finalizeChapters(tag *Tag) {
	if len(tag.Chapters) == 0 {
		return
	}
	sort.Slice(tag.Chapters, func(i, j int) bool {
		return tag.Chapters[i].StartTime < tag.Chapters[j].StartTime
	})
	for i := range tag.Chapters {
		tag.Chapters[i].Index = i + 1
		if tag.Chapters[i].EndTime == 0 && i+1 < len(tag.Chapters) {
			tag.Chapters[i].EndTime = tag.Chapters[i+1].StartTime
		}
	}
}

// splitNullTerminated splits a PRIV body into owner identifier and payload.
func splitNullTerminated(body []byte) (string, []byte) {
	idx := bytes.IndexByte(body, 0)
	if idx < 0 {
		return string(body), nil
	}
	return string(body[:idx]), body[idx+1:]
}

// splitEncodedPair splits a TXXX body (after the encoding byte) into
// description and value, honoring the frame's text encoding.
func splitEncodedPair(encoding byte, body []byte) (string, string) {
	var sep int
	var sepLen int
	switch encoding {
	case encUTF16, encUTF16BE:
		sep = indexDoubleNull(body)
		sepLen = 2
	default:
		sep = bytes.IndexByte(body, 0)
		sepLen = 1
	}
	if sep < 0 {
		return decodeText(encoding, body), ""
	}
	return decodeText(encoding, body[:sep]), decodeText(encoding, body[sep+sepLen:])
}

// indexDoubleNull finds a UTF-16 null terminator on a code-unit boundary.
func indexDoubleNull(b []byte) int {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return i
		}
	}
	return -1
}

// decodeText decodes frame text per the ID3v2 encoding byte. Unknown
// encodings fall back to treating the bytes as Latin-1.
func decodeText(encoding byte, data []byte) string {
	data = bytes.TrimSuffix(data, []byte{0})
	switch encoding {
	case encUTF8:
		return string(data)
	case encUTF16:
		if len(data) >= 2 {
			if data[0] == 0xFF && data[1] == 0xFE {
				return decodeUTF16(data[2:], false)
			}
			if data[0] == 0xFE && data[1] == 0xFF {
				return decodeUTF16(data[2:], true)
			}
		}
		return decodeUTF16(data, false)
	case encUTF16BE:
		return decodeUTF16(data, true)
	default:
		// Latin-1: each byte is its code point.
		runes := make([]rune, len(data))
		for i, b := range data {
			runes[i] = rune(b)
		}
		return string(runes)
	}
}

func decodeUTF16(data []byte, bigEndian bool) string {
	if len(data) < 2 {
		return ""
	}
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		if bigEndian {
			units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
		} else {
			units = append(units, uint16(data[i+1])<<8|uint16(data[i]))
		}
	}
	for len(units) > 0 && units[len(units)-1] == 0 {
		units = units[:len(units)-1]
	}
	return string(utf16.Decode(units))
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
