package id3

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/scriptroom/scriptroom-server/pkg/audiometa"
	binutil "github.com/scriptroom/scriptroom-server/pkg/audiometa/internal/binary"
)

// buildTag assembles an ID3v2.3 tag from raw frame bodies.
func buildTag(frames ...[]byte) []byte {
	var body bytes.Buffer
	for _, f := range frames {
		body.Write(f)
	}

	size := body.Len()
	header := []byte{'I', 'D', '3', 3, 0, 0,
		byte(size >> 21 & 0x7f), byte(size >> 14 & 0x7f), byte(size >> 7 & 0x7f), byte(size & 0x7f)}
	return append(header, body.Bytes()...)
}

func frame(id string, body []byte) []byte {
	buf := make([]byte, 10+len(body))
	copy(buf, id)
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(body)))
	copy(buf[10:], body)
	return buf
}

func chapFrame(element string, startMs, endMs uint32) []byte {
	var body bytes.Buffer
	body.WriteString(element)
	body.WriteByte(0)
	_ = binary.Write(&body, binary.BigEndian, startMs)
	_ = binary.Write(&body, binary.BigEndian, endMs)
	_ = binary.Write(&body, binary.BigEndian, uint32(0xFFFFFFFF))
	_ = binary.Write(&body, binary.BigEndian, uint32(0xFFFFFFFF))
	return frame("CHAP", body.Bytes())
}

func privFrame(owner string, payload []byte) []byte {
	body := append([]byte(owner), 0)
	body = append(body, payload...)
	return frame("PRIV", body)
}

func txxxFrame(desc, value string) []byte {
	body := []byte{3} // UTF-8
	body = append(body, desc...)
	body = append(body, 0)
	body = append(body, value...)
	return frame("TXXX", body)
}

func parse(t *testing.T, data []byte) *Tag {
	t.Helper()
	sr := binutil.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.mp3")
	tag, err := ParseTag(sr, 0)
	if err != nil {
		t.Fatalf("ParseTag failed: %v", err)
	}
	return tag
}

func TestParseTag_Chapters(t *testing.T) {
	data := buildTag(
		chapFrame("ch2", 5000, 9000),
		chapFrame("ch1", 0, 5000),
	)

	tag := parse(t, data)

	if len(tag.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(tag.Chapters))
	}
	// Sorted by start time regardless of frame order.
	if tag.Chapters[0].Title != "ch1" || tag.Chapters[1].Title != "ch2" {
		t.Errorf("chapters not sorted by start: %+v", tag.Chapters)
	}
	if tag.Chapters[0].StartTime != 0 || tag.Chapters[0].EndTime != 5*time.Second {
		t.Errorf("unexpected ch1 bounds: %+v", tag.Chapters[0])
	}
	if tag.Chapters[1].Index != 2 {
		t.Errorf("expected index 2, got %d", tag.Chapters[1].Index)
	}
}

func TestParseTag_VendorFrames(t *testing.T) {
	xmp := []byte(`<xmpDM:markers><rdf:li xmpDM:startTime="96000"/></xmpDM:markers>`)
	data := buildTag(
		privFrame("XMP", xmp),
		txxxFrame("CUE_SHEET", "startTime=\"48000\""),
	)

	tag := parse(t, data)

	if len(tag.Vendor) != 2 {
		t.Fatalf("expected 2 vendor tags, got %d", len(tag.Vendor))
	}
	if tag.Vendor[0].Kind != audiometa.TagPriv || tag.Vendor[0].Owner != "XMP" {
		t.Errorf("unexpected PRIV tag: %+v", tag.Vendor[0])
	}
	if !bytes.Equal(tag.Vendor[0].Raw, xmp) {
		t.Error("PRIV payload not preserved")
	}
	if tag.Vendor[1].Kind != audiometa.TagUserText || tag.Vendor[1].Owner != "CUE_SHEET" {
		t.Errorf("unexpected TXXX tag: %+v", tag.Vendor[1])
	}
}

func TestParseTag_PaddingStopsWalk(t *testing.T) {
	data := buildTag(
		txxxFrame("A", "1"),
		make([]byte, 64), // zero padding after the last frame
	)

	tag := parse(t, data)
	if len(tag.Vendor) != 1 {
		t.Fatalf("expected 1 vendor tag, got %d", len(tag.Vendor))
	}
}

func TestParseTag_MalformedFrameSize(t *testing.T) {
	bad := frame("TXXX", []byte{3, 'x', 0, 'y'})
	// Corrupt the size so it points past the tag end.
	binary.BigEndian.PutUint32(bad[4:8], 1<<20)

	tag := parse(t, buildTag(bad))
	if len(tag.Vendor) != 0 {
		t.Error("malformed frame should be skipped")
	}
	if len(tag.Warnings) == 0 {
		t.Error("expected a warning for the malformed frame")
	}
}

func TestParseTag_NotID3(t *testing.T) {
	data := []byte("RIFFxxxxWAVE")
	sr := binutil.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.wav")
	if _, err := ParseTag(sr, 0); err == nil {
		t.Error("expected error for non-ID3 data")
	}
}

func TestDecodeText_UTF16(t *testing.T) {
	// "白瑶" little-endian with BOM.
	le := []byte{0xFF, 0xFE, 0x7D, 0x76, 0x76, 0x74}
	if got := decodeText(encUTF16, le); got != "白瑶" {
		t.Errorf("UTF-16LE decode: got %q", got)
	}

	be := []byte{0xFE, 0xFF, 0x76, 0x7D, 0x74, 0x76}
	if got := decodeText(encUTF16, be); got != "白瑶" {
		t.Errorf("UTF-16BE decode: got %q", got)
	}
}
