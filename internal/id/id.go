package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "chr-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use only during initialization where failure should crash the program.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// sourceAudioNamespace scopes deterministic source-audio IDs.
// Changing it would orphan every previously imported master recording.
var sourceAudioNamespace = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

// SourceAudio derives the deterministic ID grouping all audio blobs sliced
// from one imported master file. Re-importing the same file in the same
// project always yields the same ID, which is what makes re-imports
// replace rather than accumulate.
func SourceAudio(projectID, filename string) string {
	return "src-" + uuid.NewSHA1(sourceAudioNamespace, []byte(projectID+"/"+filename)).String()
}
