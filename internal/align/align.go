// Package align implements the audio-segment alignment engine: it takes a
// master recording covering many script lines, locates per-line boundaries
// from embedded cue metadata, slices the waveform, and assigns each clip to
// its script line through the store's single mutation entry point.
//
// Re-importing the same file is idempotent: every clip is grouped under a
// source audio ID derived from (project, filename), and prior clips for that
// ID are deleted before new ones are written.
package align

import (
	"github.com/scriptroom/scriptroom-server/internal/domain"
)

// MatchAxis selects how a master file's character token is interpreted.
type MatchAxis string

const (
	// AxisCV matches the token against voice-actor names first.
	AxisCV MatchAxis = "cv"
	// AxisCharacter matches the token against character display names first.
	AxisCharacter MatchAxis = "character"
	// AxisChapter ignores the token; every eligible line in the target
	// chapters participates.
	AxisChapter MatchAxis = "chapter"
)

// Valid reports whether the axis is one of the three known modes.
func (a MatchAxis) Valid() bool {
	return a == AxisCV || a == AxisCharacter || a == AxisChapter
}

// TargetLine is one script line eligible for audio assignment, paired with
// the chapter that owns it.
type TargetLine struct {
	ChapterID string
	Line      domain.ScriptLine
}
