package domain

import "time"

// AudioBlob is one stored audio segment, usually a slice of a master
// recording or a single TTS-synthesized line.
type AudioBlob struct {
	ID   string `json:"id"`
	Data []byte `json:"data"`
	// SourceAudioID groups every blob sliced from one imported master file.
	// It is the idempotence key: re-importing the same master deletes all
	// blobs carrying its SourceAudioID before writing new ones.
	SourceAudioID       string    `json:"source_audio_id,omitempty"`
	SourceAudioFilename string    `json:"source_audio_filename,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// MasterAudio is the raw imported master recording, kept so segments can be
// re-cut without asking the user to re-upload.
type MasterAudio struct {
	ID         string    `json:"id"` // equals the SourceAudioID of its slices
	ProjectID  string    `json:"project_id"`
	Filename   string    `json:"filename"`
	Data       []byte    `json:"data"`
	ImportedAt time.Time `json:"imported_at"`
}
