// Package domain contains the core business entities for the ScriptRoom drama-script production tool.
package domain

import "time"

// Project is one audiobook/drama production: a script split into chapters,
// a character roster, and the audio imported or synthesized against it.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chapter is one ordered unit of a project's script. Its 1-based position
// within the project is the "chapter number" used by filename matching.
type Chapter struct {
	ID        string       `json:"id"`
	ProjectID string       `json:"project_id"`
	Position  int          `json:"position"` // 1-based order within the project
	Title     string       `json:"title,omitempty"`
	Lines     []ScriptLine `json:"lines"`
}

// ScriptLine is one line of dialogue or narration within a chapter.
type ScriptLine struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	CharacterID string `json:"character_id,omitempty"`
	// AudioBlobID is a weak reference into the audio blob store. The line
	// does not own the blob; a dangling reference reads as "no audio".
	AudioBlobID string `json:"audio_blob_id,omitempty"`
}

// HasCharacter reports whether the line is assigned to any character.
func (l ScriptLine) HasCharacter() bool {
	return l.CharacterID != ""
}
