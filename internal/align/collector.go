package align

import (
	"github.com/scriptroom/scriptroom-server/internal/domain"
)

// CollectTargetLines produces the ordered list of lines eligible for audio
// assignment. resolvedIDs nil means chapter-only matching (every line
// participates); non-nil restricts to lines assigned to one of the resolved
// characters. Lines belonging to pseudo-characters never participate.
//
// The output order, chapters in script order then lines in script order, is
// the sole pairing key between lines and cue segments. There is no other
// correlation, so this ordering must stay stable across runs.
func CollectTargetLines(chapterIndices []int, resolvedIDs map[string]struct{}, chapters []domain.Chapter, nonAudioIDs map[string]struct{}) []TargetLine {
	wanted := make(map[int]struct{}, len(chapterIndices))
	for _, idx := range chapterIndices {
		wanted[idx] = struct{}{}
	}

	var targets []TargetLine
	for _, ch := range chapters {
		if _, ok := wanted[ch.Position]; !ok {
			continue
		}
		for _, line := range ch.Lines {
			if _, pseudo := nonAudioIDs[line.CharacterID]; pseudo {
				continue
			}
			if resolvedIDs != nil {
				if !line.HasCharacter() {
					continue
				}
				if _, ok := resolvedIDs[line.CharacterID]; !ok {
					continue
				}
			}
			targets = append(targets, TargetLine{ChapterID: ch.ID, Line: line})
		}
	}
	return targets
}
