package domain

// CharacterStatus is the lifecycle state of a character record.
type CharacterStatus string

const (
	// CharacterActive is a normal, assignable character.
	CharacterActive CharacterStatus = "active"
	// CharacterMerged marks a character folded into another one. Merged
	// characters are kept for referential integrity but never match.
	CharacterMerged CharacterStatus = "merged"
)

// Reserved pseudo-character names. Lines assigned to these are production
// annotations (pauses, effects) and never receive synthesized or aligned audio.
const (
	PseudoSilence     = "silence"
	PseudoSoundEffect = "sound-effect"
)

// Character is a speaking role in a project, optionally bound to a
// voice actor (CV) name.
type Character struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	CVName string          `json:"cv_name,omitempty"`
	Status CharacterStatus `json:"status"`
	// ProjectID scopes the character; empty means a global template character.
	ProjectID string `json:"project_id,omitempty"`
	// MergedInto holds the surviving character's ID when Status is merged.
	MergedInto string `json:"merged_into,omitempty"`
}

// Active reports whether the character is a valid match target.
func (c Character) Active() bool {
	return c.Status != CharacterMerged
}

// Pseudo reports whether the character is a reserved non-audio placeholder.
func (c Character) Pseudo() bool {
	return c.Name == PseudoSilence || c.Name == PseudoSoundEffect
}
