package align

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/scriptroom/scriptroom-server/internal/audio"
	"github.com/scriptroom/scriptroom-server/pkg/audiometa"
)

// defaultCueSampleRate is assumed for cue documents that carry no
// sample-rate hint of their own.
const defaultCueSampleRate = 48000

var (
	// cueStartPattern pulls the start offsets (in samples) out of an
	// embedded cue-point document.
	cueStartPattern = regexp.MustCompile(`startTime="(\d+)"`)
	// cueRatePattern pulls the document's sample-rate hint. XMP writes it
	// as frameRate="f48000"; some exporters drop the "f".
	cueRatePattern = regexp.MustCompile(`frameRate="f?(\d+)`)
)

// ExtractSegments derives the per-line cue segments from a master file's
// metadata. Native chapter markers win when present; otherwise vendor tag
// frames are scanned for an embedded cue-point document. A nil result means
// the file carries no usable markers, which the caller reports as a
// user-fixable condition rather than a fault.
func ExtractSegments(meta *audiometa.Metadata, totalDuration float64) []audio.Segment {
	if len(meta.Chapters) > 0 {
		segments := make([]audio.Segment, 0, len(meta.Chapters))
		for _, ch := range meta.Chapters {
			segments = append(segments, audio.Segment{
				Start: ch.StartTime.Seconds(),
				End:   ch.EndTime.Seconds(),
			})
		}
		return segments
	}
	return segmentsFromVendorTags(meta.VendorTags, totalDuration)
}

// segmentsFromVendorTags runs the cue-regex pass over every vendor tag
// payload that looks like a cue document. Start offsets are sample counts;
// the document's rate hint converts them to seconds.
func segmentsFromVendorTags(tags []audiometa.VendorTag, totalDuration float64) []audio.Segment {
	var starts []int
	sampleRate := defaultCueSampleRate

	for _, tag := range tags {
		text := vendorPayloadText(tag)
		if !isCueDocument(tag, text) {
			continue
		}
		for _, m := range cueStartPattern.FindAllStringSubmatch(text, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil {
				starts = append(starts, n)
			}
		}
		if m := cueRatePattern.FindStringSubmatch(text); m != nil {
			if rate, err := strconv.Atoi(m[1]); err == nil && rate > 0 {
				sampleRate = rate
			}
		}
	}
	if len(starts) == 0 {
		return nil
	}

	sort.Ints(starts)
	if starts[0] != 0 {
		starts = append([]int{0}, starts...)
	}

	segments := make([]audio.Segment, 0, len(starts))
	for i, start := range starts {
		seg := audio.Segment{Start: float64(start) / float64(sampleRate)}
		if i+1 < len(starts) {
			seg.End = float64(starts[i+1]) / float64(sampleRate)
		} else {
			seg.End = totalDuration
		}
		segments = append(segments, seg)
	}
	return segments
}

// vendorPayloadText normalizes the tag's payload into text for the single
// regex pass. Each tag kind carries its payload differently on the wire, so
// normalization happens here rather than in the parsers.
func vendorPayloadText(tag audiometa.VendorTag) string {
	return string(tag.Raw)
}

// isCueDocument reports whether a vendor tag plausibly carries cue points,
// either by owner identifier or by content signature.
func isCueDocument(tag audiometa.VendorTag, text string) bool {
	if tag.Kind == audiometa.TagXMPChunk {
		return true
	}
	owner := strings.ToLower(tag.Owner)
	if strings.Contains(owner, "xmp") || strings.Contains(owner, "cue") {
		return true
	}
	return strings.Contains(text, "startTime=")
}
