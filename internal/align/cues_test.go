package align

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptroom/scriptroom-server/internal/audio"
	"github.com/scriptroom/scriptroom-server/pkg/audiometa"
)

func TestExtractSegments_NativeChaptersWin(t *testing.T) {
	meta := &audiometa.Metadata{
		Chapters: []audiometa.Chapter{
			{StartTime: 0, EndTime: 1500 * time.Millisecond},
			{StartTime: 1500 * time.Millisecond, EndTime: 4 * time.Second},
		},
		// Vendor tags present but ignored: native markers take precedence.
		VendorTags: []audiometa.VendorTag{
			{Kind: audiometa.TagXMPChunk, Raw: []byte(`startTime="96000"`)},
		},
	}

	segments := ExtractSegments(meta, 4)
	require.Len(t, segments, 2)
	assert.Equal(t, audio.Segment{Start: 0, End: 1.5}, segments[0])
	assert.Equal(t, audio.Segment{Start: 1.5, End: 4}, segments[1])
}

func TestExtractSegments_VendorFallbackSyntheticLead(t *testing.T) {
	// Starts 1000 and 2000 samples at the default 48 kHz, no zero start:
	// a synthetic leading segment covers the head of the file.
	meta := &audiometa.Metadata{
		VendorTags: []audiometa.VendorTag{
			{Kind: audiometa.TagXMPChunk, Raw: []byte(`startTime="2000" startTime="1000"`)},
		},
	}

	segments := ExtractSegments(meta, 10)
	require.Len(t, segments, 3)
	assert.InDelta(t, 0, segments[0].Start, 1e-9)
	assert.InDelta(t, 1000.0/48000, segments[0].End, 1e-9)
	assert.InDelta(t, 1000.0/48000, segments[1].Start, 1e-9)
	assert.InDelta(t, 2000.0/48000, segments[1].End, 1e-9)
	assert.InDelta(t, 2000.0/48000, segments[2].Start, 1e-9)
	assert.InDelta(t, 10, segments[2].End, 1e-9)
}

func TestExtractSegments_SampleRateHint(t *testing.T) {
	meta := &audiometa.Metadata{
		VendorTags: []audiometa.VendorTag{
			{Kind: audiometa.TagPriv, Owner: "XMP",
				Raw: []byte(`xmpDM:frameRate="f44100" startTime="0" startTime="44100"`)},
		},
	}

	segments := ExtractSegments(meta, 5)
	require.Len(t, segments, 2)
	assert.InDelta(t, 1.0, segments[1].Start, 1e-9)
}

func TestExtractSegments_ContentSignatureWithoutOwner(t *testing.T) {
	// TXXX frames from some exporters carry no recognizable owner; the
	// payload's content signature is enough.
	meta := &audiometa.Metadata{
		VendorTags: []audiometa.VendorTag{
			{Kind: audiometa.TagUserText, Owner: "exporter-junk",
				Raw: []byte(`<marker startTime="0"/><marker startTime="96000"/>`)},
		},
	}

	segments := ExtractSegments(meta, 4)
	require.Len(t, segments, 2)
	assert.InDelta(t, 2.0, segments[1].Start, 1e-9)
}

func TestExtractSegments_NoMarkers(t *testing.T) {
	assert.Nil(t, ExtractSegments(&audiometa.Metadata{}, 10))

	// A vendor tag with no cue starts is not a cue document result either.
	meta := &audiometa.Metadata{
		VendorTags: []audiometa.VendorTag{
			{Kind: audiometa.TagPriv, Owner: "www.example.com", Raw: []byte("opaque")},
		},
	}
	assert.Nil(t, ExtractSegments(meta, 10))
}
