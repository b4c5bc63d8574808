package tts

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptroom/scriptroom-server/internal/config"
	"github.com/scriptroom/scriptroom-server/internal/domain"
	domainerrors "github.com/scriptroom/scriptroom-server/internal/errors"
	"github.com/scriptroom/scriptroom-server/internal/store"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(config.TTSConfig{
		BaseURL:           srv.URL,
		RequestsPerSecond: 100,
		Burst:             10,
		Timeout:           5 * time.Second,
	}, slog.New(slog.DiscardHandler))
	t.Cleanup(c.Close)
	return c
}

func TestSynthesize(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/synthesize", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write([]byte("RIFFfake"))
	})

	clip, err := c.Synthesize(context.Background(), "白瑶", "你好")
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFFfake"), clip)
}

func TestSynthesize_UnknownVoice(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such voice", http.StatusNotFound)
	})

	_, err := c.Synthesize(context.Background(), "ghost", "text")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestSynthesize_ServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	})

	_, err := c.Synthesize(context.Background(), "白瑶", "text")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnavailable))
}

// fakeSynth answers from a script of per-text results.
type fakeSynth struct {
	fail  map[string]bool
	calls []string
}

func (f *fakeSynth) Synthesize(_ context.Context, voice, text string) ([]byte, error) {
	f.calls = append(f.calls, text)
	if f.fail[text] {
		return nil, fmt.Errorf("synthesis failed for %q", text)
	}
	return []byte("clip:" + voice + ":" + text), nil
}

func generatorFixture(t *testing.T) (*store.Store, *domain.Project, *domain.Character, *domain.Chapter) {
	t.Helper()
	s, err := store.NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	p := &domain.Project{Name: "Moonlit City"}
	require.NoError(t, s.CreateProject(p))
	c := &domain.Character{Name: "女主角", CVName: "白瑶", ProjectID: p.ID}
	require.NoError(t, s.CreateCharacter(c))
	other := &domain.Character{Name: "旁白", ProjectID: p.ID}
	require.NoError(t, s.CreateCharacter(other))

	ch := &domain.Chapter{ProjectID: p.ID, Position: 1, Lines: []domain.ScriptLine{
		{ID: "l1", Text: "第一句", CharacterID: c.ID},
		{ID: "l2", Text: "旁白句", CharacterID: other.ID},
		{ID: "l3", Text: "第二句", CharacterID: c.ID},
		{ID: "l4", Text: "", CharacterID: c.ID}, // empty text, nothing to say
	}}
	require.NoError(t, s.CreateChapter(ch))
	return s, p, c, ch
}

func TestGenerateForCharacter(t *testing.T) {
	s, p, c, ch := generatorFixture(t)
	synth := &fakeSynth{}
	g := NewGenerator(s, synth, slog.New(slog.DiscardHandler))

	report, err := g.GenerateForCharacter(context.Background(), p.ID, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Generated)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, "白瑶", report.Voice)
	// Other characters' lines and empty lines were never synthesized.
	assert.Equal(t, []string{"第一句", "第二句"}, synth.calls)

	got, err := s.GetChapter(ch.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, got.Lines[0].AudioBlobID)
	assert.Empty(t, got.Lines[1].AudioBlobID)
	assert.NotEmpty(t, got.Lines[2].AudioBlobID)
}

func TestGenerateForCharacter_SkipsExistingUnlessOverwrite(t *testing.T) {
	s, p, c, _ := generatorFixture(t)
	synth := &fakeSynth{}
	g := NewGenerator(s, synth, slog.New(slog.DiscardHandler))

	_, err := g.GenerateForCharacter(context.Background(), p.ID, c.ID, false)
	require.NoError(t, err)

	second, err := g.GenerateForCharacter(context.Background(), p.ID, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Generated)
	assert.Equal(t, 2, second.Skipped)

	third, err := g.GenerateForCharacter(context.Background(), p.ID, c.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, third.Generated)
}

func TestGenerateForCharacter_FailureIsolation(t *testing.T) {
	s, p, c, _ := generatorFixture(t)
	synth := &fakeSynth{fail: map[string]bool{"第一句": true}}
	g := NewGenerator(s, synth, slog.New(slog.DiscardHandler))

	report, err := g.GenerateForCharacter(context.Background(), p.ID, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generated)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{"l1"}, report.FailedLines)
}

func TestGenerateForCharacter_RefusesPseudo(t *testing.T) {
	s, p, _, _ := generatorFixture(t)
	pseudo := &domain.Character{Name: domain.PseudoSilence, ProjectID: p.ID}
	require.NoError(t, s.CreateCharacter(pseudo))
	g := NewGenerator(s, &fakeSynth{}, slog.New(slog.DiscardHandler))

	_, err := g.GenerateForCharacter(context.Background(), p.ID, pseudo.ID, false)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}
