package mp3

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/scriptroom/scriptroom-server/pkg/audiometa"
)

// id3Tag assembles an ID3v2.3 tag with the given frames.
func id3Tag(frames ...[]byte) []byte {
	var body bytes.Buffer
	for _, f := range frames {
		body.Write(f)
	}
	size := body.Len()
	header := []byte{'I', 'D', '3', 3, 0, 0,
		byte(size >> 21 & 0x7f), byte(size >> 14 & 0x7f), byte(size >> 7 & 0x7f), byte(size & 0x7f)}
	return append(header, body.Bytes()...)
}

func privFrame(owner string, payload []byte) []byte {
	body := append([]byte(owner), 0)
	body = append(body, payload...)
	buf := make([]byte, 10+len(body))
	copy(buf, "PRIV")
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(body)))
	copy(buf[10:], body)
	return buf
}

// mpegFrame returns a valid MPEG1 Layer III header: 128 kbps, 44.1 kHz, stereo.
func mpegFrame() []byte {
	return []byte{0xFF, 0xFB, 0x90, 0x00}
}

func TestParse_TechnicalInfo(t *testing.T) {
	tag := id3Tag()
	// Tag followed by a frame header and ~1 second of CBR payload.
	payload := make([]byte, 16000)
	data := append(append(tag, mpegFrame()...), payload...)

	meta, err := Parse(data, "test.mp3")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Format != audiometa.FormatMP3 {
		t.Errorf("expected MP3 format, got %v", meta.Format)
	}
	if meta.SampleRate != 44100 || meta.Channels != 2 || meta.BitRate != 128000 {
		t.Errorf("unexpected technical info: rate=%d ch=%d br=%d", meta.SampleRate, meta.Channels, meta.BitRate)
	}
	if meta.Duration <= 0 {
		t.Error("expected a positive duration estimate")
	}
}

func TestParse_VendorTagsCarried(t *testing.T) {
	xmp := []byte(`xmpDM:startTime="96000"`)
	data := append(id3Tag(privFrame("XMP", xmp)), mpegFrame()...)
	data = append(data, make([]byte, 4000)...)

	meta, err := Parse(data, "test.mp3")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(meta.VendorTags) != 1 || meta.VendorTags[0].Owner != "XMP" {
		t.Fatalf("expected one XMP vendor tag, got %+v", meta.VendorTags)
	}
}

func TestParse_NoTag(t *testing.T) {
	data := append(mpegFrame(), make([]byte, 4000)...)

	meta, err := Parse(data, "bare.mp3")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.SampleRate != 44100 {
		t.Errorf("expected technical info from bare stream, got %+v", meta)
	}
	if len(meta.Warnings) == 0 {
		t.Error("expected a warning about the missing ID3 tag")
	}
}

func TestParse_Garbage(t *testing.T) {
	meta, err := Parse(bytes.Repeat([]byte{0x00}, 512), "junk.bin")
	if err != nil {
		t.Fatalf("Parse should degrade to warnings, got error: %v", err)
	}
	if len(meta.Warnings) == 0 {
		t.Error("expected warnings for unparseable data")
	}
	if meta.SampleRate != 0 {
		t.Error("no technical info should be reported for garbage")
	}
}
