package tts

import (
	"context"
	"log/slog"

	"github.com/scriptroom/scriptroom-server/internal/domain"
	domainerrors "github.com/scriptroom/scriptroom-server/internal/errors"
)

// Synthesizer renders text into audio. Satisfied by *Client; tests swap in
// a local fake.
type Synthesizer interface {
	Synthesize(ctx context.Context, voice, text string) ([]byte, error)
}

// Store is the slice of the persistence layer the generator needs.
type Store interface {
	GetCharacter(charID string) (*domain.Character, error)
	ListChapters(projectID string) ([]domain.Chapter, error)
	AssignAudioToLine(ctx context.Context, projectID, chapterID, lineID string, data []byte, sourceID, sourceFilename string) error
}

// Generator batch-synthesizes audio for every line of one character and
// assigns the clips through the same mutation path the alignment engine
// uses. TTS clips carry no source audio ID: they are per-line, not sliced
// from a master, so re-generation simply overwrites each line's pointer.
type Generator struct {
	store  Store
	client Synthesizer
	logger *slog.Logger
}

func NewGenerator(store Store, client Synthesizer, logger *slog.Logger) *Generator {
	return &Generator{store: store, client: client, logger: logger}
}

// GenerationReport summarizes one character's batch synthesis run.
type GenerationReport struct {
	CharacterID string `json:"character_id"`
	Voice       string `json:"voice"`
	Generated   int    `json:"generated"`
	Skipped     int    `json:"skipped"`
	Failed      int    `json:"failed"`
	// FailedLines lists line IDs whose synthesis or assignment failed.
	FailedLines []string `json:"failed_lines,omitempty"`
}

// GenerateForCharacter synthesizes every line assigned to the character
// across the whole project. Lines that already have audio are skipped
// unless overwrite is set. One line's failure does not stop the run.
func (g *Generator) GenerateForCharacter(ctx context.Context, projectID, characterID string, overwrite bool) (*GenerationReport, error) {
	char, err := g.store.GetCharacter(characterID)
	if err != nil {
		return nil, err
	}
	if char.Pseudo() {
		return nil, domainerrors.Validationf("%q is a production annotation and never receives audio", char.Name)
	}
	if !char.Active() {
		return nil, domainerrors.Conflict("character is merged; generate for the surviving character instead")
	}

	voice := char.CVName
	if voice == "" {
		voice = char.Name
	}
	report := &GenerationReport{CharacterID: characterID, Voice: voice}

	chapters, err := g.store.ListChapters(projectID)
	if err != nil {
		return nil, err
	}

	log := g.logger.With("project", projectID, "character", char.Name, "voice", voice)
	for _, chapter := range chapters {
		for _, line := range chapter.Lines {
			if line.CharacterID != characterID || line.Text == "" {
				continue
			}
			if line.AudioBlobID != "" && !overwrite {
				report.Skipped++
				continue
			}
			if err := ctx.Err(); err != nil {
				return report, err
			}

			clip, err := g.client.Synthesize(ctx, voice, line.Text)
			if err == nil {
				err = g.store.AssignAudioToLine(ctx, projectID, chapter.ID, line.ID, clip, "", "")
			}
			if err != nil {
				if ctx.Err() != nil {
					return report, ctx.Err()
				}
				log.Warn("line synthesis failed", "line", line.ID, "error", err)
				report.Failed++
				report.FailedLines = append(report.FailedLines, line.ID)
				continue
			}
			report.Generated++
		}
	}

	log.Info("voice generation finished",
		"generated", report.Generated, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}
