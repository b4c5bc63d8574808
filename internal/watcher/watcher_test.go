package watcher

import (
	"bytes"
	"context"
	"encoding/binary"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scriptroom/scriptroom-server/internal/align"
	"github.com/scriptroom/scriptroom-server/internal/config"
	"github.com/scriptroom/scriptroom-server/internal/domain"
	"github.com/scriptroom/scriptroom-server/internal/store"
)

func cueWAV(sampleRate, seconds int, cueSamples ...uint32) []byte {
	var body bytes.Buffer
	body.WriteString("fmt ")
	_ = binary.Write(&body, binary.LittleEndian, uint32(16))
	_ = binary.Write(&body, binary.LittleEndian, uint16(1))
	_ = binary.Write(&body, binary.LittleEndian, uint16(1))
	_ = binary.Write(&body, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&body, binary.LittleEndian, uint32(sampleRate*2))
	_ = binary.Write(&body, binary.LittleEndian, uint16(2))
	_ = binary.Write(&body, binary.LittleEndian, uint16(16))

	body.WriteString("cue ")
	_ = binary.Write(&body, binary.LittleEndian, uint32(4+24*len(cueSamples)))
	_ = binary.Write(&body, binary.LittleEndian, uint32(len(cueSamples)))
	for i, off := range cueSamples {
		_ = binary.Write(&body, binary.LittleEndian, uint32(i+1))
		_ = binary.Write(&body, binary.LittleEndian, uint32(0))
		body.WriteString("data")
		_ = binary.Write(&body, binary.LittleEndian, uint32(0))
		_ = binary.Write(&body, binary.LittleEndian, uint32(0))
		_ = binary.Write(&body, binary.LittleEndian, off)
	}

	pcm := make([]byte, sampleRate*2*seconds)
	body.WriteString("data")
	_ = binary.Write(&body, binary.LittleEndian, uint32(len(pcm)))
	body.Write(pcm)

	var out bytes.Buffer
	out.WriteString("RIFF")
	_ = binary.Write(&out, binary.LittleEndian, uint32(4+body.Len()))
	out.WriteString("WAVE")
	out.Write(body.Bytes())
	return out.Bytes()
}

func TestWatcher_ImportsSettledFile(t *testing.T) {
	s, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	p := &domain.Project{Name: "Moonlit City"}
	require.NoError(t, s.CreateProject(p))
	narrator := &domain.Character{Name: "旁白", ProjectID: p.ID}
	require.NoError(t, s.CreateCharacter(narrator))
	ch := &domain.Chapter{ProjectID: p.ID, Position: 1, Lines: []domain.ScriptLine{
		{ID: "l1", Text: "一", CharacterID: narrator.ID},
		{ID: "l2", Text: "二", CharacterID: narrator.ID},
	}}
	require.NoError(t, s.CreateChapter(ch))

	inbox := t.TempDir()
	log := slog.New(slog.DiscardHandler)
	w, err := New(config.ImportConfig{InboxPath: inbox, SettleDelay: 50 * time.Millisecond},
		align.NewOrchestrator(s, log), s, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Start(ctx)

	projectDir := filepath.Join(inbox, p.ID)
	require.NoError(t, os.Mkdir(projectDir, 0o755))
	target := filepath.Join(projectDir, "1_take.wav")
	require.NoError(t, os.WriteFile(target, cueWAV(8000, 2, 0, 8000), 0o644))

	require.Eventually(t, func() bool {
		got, err := s.GetChapter(ch.ID)
		if err != nil {
			return false
		}
		return got.Lines[0].AudioBlobID != "" && got.Lines[1].AudioBlobID != ""
	}, 5*time.Second, 20*time.Millisecond, "inbox file should be imported")

	// A clean import removes the file from the inbox.
	require.Eventually(t, func() bool {
		_, err := os.Stat(target)
		return os.IsNotExist(err)
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_LeavesFailedFileInPlace(t *testing.T) {
	s, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	p := &domain.Project{Name: "Moonlit City"}
	require.NoError(t, s.CreateProject(p))
	// Project has no chapters: every import fails with "no eligible lines".

	inbox := t.TempDir()
	log := slog.New(slog.DiscardHandler)
	w, err := New(config.ImportConfig{InboxPath: inbox, SettleDelay: 50 * time.Millisecond},
		align.NewOrchestrator(s, log), s, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Start(ctx)

	projectDir := filepath.Join(inbox, p.ID)
	require.NoError(t, os.Mkdir(projectDir, 0o755))
	target := filepath.Join(projectDir, "1_take.wav")
	require.NoError(t, os.WriteFile(target, cueWAV(8000, 1, 0), 0o644))

	// Give the watcher time to settle and process, then check the file
	// was not removed.
	time.Sleep(500 * time.Millisecond)
	_, err = os.Stat(target)
	require.NoError(t, err, "failed import should leave the file for the user")
}
