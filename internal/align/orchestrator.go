package align

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/scriptroom/scriptroom-server/internal/audio"
	"github.com/scriptroom/scriptroom-server/internal/domain"
	"github.com/scriptroom/scriptroom-server/internal/id"
	"github.com/scriptroom/scriptroom-server/pkg/audiometa"
	"github.com/scriptroom/scriptroom-server/pkg/audiometa/mp3"
	"github.com/scriptroom/scriptroom-server/pkg/audiometa/wav"
)

// Store is the narrow slice of the persistence layer the engine touches.
// AssignAudioToLine is the only mutation path for line audio; the engine
// never writes chapters or characters.
type Store interface {
	ListCharacters(projectID string) ([]domain.Character, error)
	ListChapters(projectID string) ([]domain.Chapter, error)
	DeleteBlobsBySource(sourceID string) (int, error)
	PutMasterAudio(m *domain.MasterAudio) error
	AssignAudioToLine(ctx context.Context, projectID, chapterID, lineID string, data []byte, sourceID, sourceFilename string) error
}

// Orchestrator runs the per-file alignment protocol: cleanup, resolve,
// collect, extract cues, slice, assign.
type Orchestrator struct {
	store Store
	log   *slog.Logger
}

func NewOrchestrator(store Store, log *slog.Logger) *Orchestrator {
	return &Orchestrator{store: store, log: log}
}

// ProcessFile aligns one master recording against a project's script. Every
// failure is converted into the returned result; the error return is
// reserved for context cancellation.
//
// The cleanup step runs before any validation: a re-import must drop the
// previous import's clips even when the new file turns out to be unusable,
// otherwise a failed re-import would leave the old, superseded audio in
// place looking current.
func (o *Orchestrator) ProcessFile(ctx context.Context, projectID, filename string, data []byte, chapterIdentifier, characterIdentifier string, axis MatchAxis) (FileProcessResult, error) {
	result := FileProcessResult{Filename: filename, ChapterRange: chapterIdentifier}
	log := o.log.With("file", filename, "project", projectID)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	sourceID := id.SourceAudio(projectID, filename)
	deleted, err := o.store.DeleteBlobsBySource(sourceID)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("cleanup of previous import failed: %v", err)
		return result, nil
	}
	if deleted > 0 {
		log.Info("removed clips from previous import", "count", deleted)
	}

	characters, err := o.store.ListCharacters(projectID)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("loading character roster failed: %v", err)
		return result, nil
	}

	var resolvedIDs map[string]struct{}
	if axis != AxisChapter {
		resolved := ResolveCharacters(characterIdentifier, axis, characters)
		if len(resolved) == 0 {
			result.ErrorMessage = fmt.Sprintf("%q matches no character or CV; known names: %s",
				characterIdentifier, rosterNames(characters))
			return result, nil
		}
		resolvedIDs = make(map[string]struct{}, len(resolved))
		for _, c := range resolved {
			resolvedIDs[c.ID] = struct{}{}
		}
	}

	chapterIndices := ParseChapterIdentifier(chapterIdentifier)
	if len(chapterIndices) == 0 {
		result.ErrorMessage = fmt.Sprintf("cannot extract chapter number from %q", chapterIdentifier)
		return result, nil
	}
	result.ChapterCount = len(chapterIndices)

	chapters, err := o.store.ListChapters(projectID)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("loading chapters failed: %v", err)
		return result, nil
	}

	nonAudioIDs := make(map[string]struct{})
	for _, c := range characters {
		if c.Pseudo() {
			nonAudioIDs[c.ID] = struct{}{}
		}
	}

	targets := CollectTargetLines(chapterIndices, resolvedIDs, chapters, nonAudioIDs)
	result.Expected = len(targets)
	if len(targets) == 0 {
		if resolvedIDs != nil {
			result.ErrorMessage = fmt.Sprintf("%q resolved, but has no lines in chapters %s", characterIdentifier, chapterIdentifier)
		} else {
			result.ErrorMessage = fmt.Sprintf("no eligible lines in chapters %s", chapterIdentifier)
		}
		return result, nil
	}

	meta, err := parseMetadata(data, filename)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("cannot read audio metadata: %v", err)
		return result, nil
	}
	segments := ExtractSegments(meta, meta.Duration.Seconds())
	result.FoundSegments = len(segments)
	if segments == nil {
		result.ErrorMessage = "no cue markers found; re-export the master file with chapter markers"
		return result, nil
	}

	limit := min(len(segments), len(targets))
	if len(segments) != len(targets) {
		result.ErrorMessage = fmt.Sprintf("%d marker(s) for %d line(s)", len(segments), len(targets))
		log.Warn("marker count does not match line count",
			"markers", len(segments), "lines", len(targets), "assigning", limit)
	}

	if err := o.store.PutMasterAudio(&domain.MasterAudio{
		ID:        sourceID,
		ProjectID: projectID,
		Filename:  filename,
		Data:      data,
	}); err != nil {
		result.ErrorMessage = fmt.Sprintf("storing master audio failed: %v", err)
		return result, nil
	}

	buf, err := audio.Decode(data, filename)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("decoding master audio failed: %v", err)
		return result, nil
	}
	clips, err := audio.Slice(buf, segments[:limit])
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("slicing master audio failed: %v", err)
		return result, nil
	}

	// Clips pair with targets by index. A degenerate marker emits no clip,
	// so everything after it lands one line early; see audio.Slice.
	for i, clip := range clips {
		if i >= len(targets) {
			break
		}
		target := targets[i]
		if err := o.store.AssignAudioToLine(ctx, projectID, target.ChapterID, target.Line.ID, clip, sourceID, filename); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.ErrorMessage = fmt.Sprintf("assigning audio to line %s failed: %v", target.Line.ID, err)
			return result, nil
		}
		result.Matched++
	}

	result.Success = result.Matched == result.Expected && result.FoundSegments == result.Expected
	log.Info("file processed",
		"matched", result.Matched, "expected", result.Expected,
		"markers", result.FoundSegments, "success", result.Success)
	return result, nil
}

// parseMetadata dispatches on the container's magic bytes, never on the
// file extension.
func parseMetadata(data []byte, filename string) (*audiometa.Metadata, error) {
	format, err := audiometa.DetectFormat(bytes.NewReader(data), int64(len(data)), filename)
	if err != nil {
		return nil, err
	}
	switch format {
	case audiometa.FormatWAV:
		return wav.Parse(data, filename)
	case audiometa.FormatMP3:
		return mp3.Parse(data, filename)
	default:
		return nil, fmt.Errorf("unsupported container format %s", format)
	}
}

// rosterNames lists a project's assignable names for resolution-miss
// diagnostics.
func rosterNames(characters []domain.Character) string {
	var names []string
	for _, c := range characters {
		if !c.Active() || c.Pseudo() {
			continue
		}
		names = append(names, c.Name)
		if c.CVName != "" {
			names = append(names, c.CVName)
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
