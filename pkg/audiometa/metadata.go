// Package audiometa provides audio metadata parsing for the master
// recordings handled by ScriptRoom: WAV and MP3 containers, chapter/cue
// markers, and the vendor tag frames that carry embedded cue-point documents.
package audiometa

import (
	"fmt"
	"time"
)

// Metadata represents audio file metadata.
type Metadata struct {
	// Technical info
	Duration   time.Duration // Total duration
	SampleRate int           // Samples per second
	Channels   int           // Number of audio channels
	BitRate    int           // Bits per second (MP3 only)

	// File info
	FileSize int64
	Format   Format

	// Chapters holds native chapter/cue markers found in the container:
	// ID3v2 CHAP frames for MP3, RIFF cue-chunk points for WAV.
	Chapters []Chapter `json:"chapters,omitempty"`

	// VendorTags holds private/vendor frames that may carry an embedded
	// cue-point document (XMP and the like). Shapes vary by exporting
	// tool, so they are kept raw and normalized by the consumer.
	VendorTags []VendorTag `json:"vendor_tags,omitempty"`

	// Warnings contains non-fatal errors encountered during parsing.
	// These indicate partial data loss but don't prevent metadata extraction.
	Warnings []string `json:"warnings,omitempty"`
}

// AddWarning adds a non-fatal warning to the metadata.
func (m *Metadata) AddWarning(format string, args ...any) {
	if m.Warnings == nil {
		m.Warnings = make([]string, 0)
	}
	m.Warnings = append(m.Warnings, fmt.Sprintf(format, args...))
}

// Chapter represents a chapter or cue marker with resolved boundaries.
type Chapter struct {
	Index     int           `json:"index"`
	Title     string        `json:"title"`
	StartTime time.Duration `json:"start_time"`
	EndTime   time.Duration `json:"end_time"`
}

// VendorTagKind identifies the container shape a vendor tag was found in.
type VendorTagKind int

const (
	// TagPriv is an ID3v2 PRIV frame: owner identifier plus binary payload.
	TagPriv VendorTagKind = iota
	// TagUserText is an ID3v2 TXXX frame: description plus text value.
	TagUserText
	// TagXMPChunk is a raw XMP document chunk (RIFF "_PMX").
	TagXMPChunk
)

// VendorTag is one private/vendor metadata frame, kept close to its wire
// shape. Owner is the PRIV owner identifier or TXXX description; for
// TagXMPChunk it is empty and Raw is the whole document.
type VendorTag struct {
	Kind  VendorTagKind `json:"kind"`
	Owner string        `json:"owner,omitempty"`
	Raw   []byte        `json:"raw,omitempty"`
}
