package align

import (
	"regexp"
	"strconv"
)

var chapterIdentPattern = regexp.MustCompile(`^(\d+)(?:-(\d+))?$`)

// ParseChapterIdentifier expands a filename chapter token into 1-based
// chapter positions: "405" yields [405], "405-410" yields the inclusive
// range [405..410]. Anything else, including an inverted range, yields nil
// and means "no chapters targeted".
func ParseChapterIdentifier(identifier string) []int {
	m := chapterIdentPattern.FindStringSubmatch(identifier)
	if m == nil {
		return nil
	}

	start, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	if m[2] == "" {
		return []int{start}
	}

	end, err := strconv.Atoi(m[2])
	if err != nil || end < start {
		return nil
	}
	indices := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		indices = append(indices, n)
	}
	return indices
}
