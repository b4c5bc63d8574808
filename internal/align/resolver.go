package align

import (
	"github.com/scriptroom/scriptroom-server/internal/domain"
)

// ResolveCharacters maps a filename token to the character records it
// denotes. Matching is case-sensitive and skips merged characters.
//
// Filenames in practice sometimes carry the stage name where the CV name was
// expected and vice versa, so each axis falls back to the other: AxisCV
// tries cv names first and display names second, AxisCharacter the reverse.
// AxisChapter performs no resolution and returns nil.
func ResolveCharacters(identifier string, axis MatchAxis, all []domain.Character) []domain.Character {
	switch axis {
	case AxisCV:
		if primary := filterCharacters(all, func(c domain.Character) bool { return c.CVName == identifier }); len(primary) > 0 {
			return primary
		}
		return filterCharacters(all, func(c domain.Character) bool { return c.Name == identifier })
	case AxisCharacter:
		if primary := filterCharacters(all, func(c domain.Character) bool { return c.Name == identifier }); len(primary) > 0 {
			return primary
		}
		return filterCharacters(all, func(c domain.Character) bool { return c.CVName == identifier })
	default:
		return nil
	}
}

func filterCharacters(all []domain.Character, match func(domain.Character) bool) []domain.Character {
	var out []domain.Character
	for _, c := range all {
		if c.Active() && match(c) {
			out = append(out, c)
		}
	}
	return out
}
