package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptroom/scriptroom-server/internal/domain"
	domainerrors "github.com/scriptroom/scriptroom-server/internal/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedProject(t *testing.T, s *Store) *domain.Project {
	t.Helper()
	p := &domain.Project{Name: "Moonlit City"}
	require.NoError(t, s.CreateProject(p))
	return p
}

func TestProjectRoundTrip(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	got, err := s.GetProject(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Moonlit City", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.GetProject("prj-missing")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestListChapters_ScriptOrder(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	// Insert out of order; listing must come back in position order.
	for _, pos := range []int{3, 1, 2} {
		require.NoError(t, s.CreateChapter(&domain.Chapter{
			ProjectID: p.ID,
			Position:  pos,
		}))
	}

	chapters, err := s.ListChapters(p.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 3)
	for i, c := range chapters {
		assert.Equal(t, i+1, c.Position)
	}
}

func TestCreateChapter_RejectsZeroPosition(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	err := s.CreateChapter(&domain.Chapter{ProjectID: p.ID, Position: 0})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestListCharacters_IncludesGlobals(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	require.NoError(t, s.CreateCharacter(&domain.Character{Name: "narrator"}))
	require.NoError(t, s.CreateCharacter(&domain.Character{Name: "白瑶", CVName: "林声", ProjectID: p.ID}))

	roster, err := s.ListCharacters(p.ID)
	require.NoError(t, err)
	require.Len(t, roster, 2)

	names := []string{roster[0].Name, roster[1].Name}
	assert.Contains(t, names, "narrator")
	assert.Contains(t, names, "白瑶")
	for _, c := range roster {
		assert.Equal(t, domain.CharacterActive, c.Status)
	}
}

func TestMergeCharacter(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	source := &domain.Character{Name: "guard A", ProjectID: p.ID}
	survivor := &domain.Character{Name: "guard", ProjectID: p.ID}
	require.NoError(t, s.CreateCharacter(source))
	require.NoError(t, s.CreateCharacter(survivor))

	require.NoError(t, s.CreateChapter(&domain.Chapter{
		ProjectID: p.ID,
		Position:  1,
		Lines: []domain.ScriptLine{
			{ID: "ln-1", Text: "Halt!", CharacterID: source.ID},
			{ID: "ln-2", Text: "...", CharacterID: survivor.ID},
		},
	}))

	require.NoError(t, s.MergeCharacter(p.ID, source.ID, survivor.ID))

	merged, err := s.GetCharacter(source.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CharacterMerged, merged.Status)
	assert.Equal(t, survivor.ID, merged.MergedInto)

	chapters, err := s.ListChapters(p.ID)
	require.NoError(t, err)
	assert.Equal(t, survivor.ID, chapters[0].Lines[0].CharacterID)

	// Merging twice is a conflict.
	err = s.MergeCharacter(p.ID, source.ID, survivor.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestAssignAudioToLine(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	ch := &domain.Chapter{
		ProjectID: p.ID,
		Position:  1,
		Lines:     []domain.ScriptLine{{ID: "ln-1", Text: "hello"}},
	}
	require.NoError(t, s.CreateChapter(ch))

	ctx := context.Background()
	err := s.AssignAudioToLine(ctx, p.ID, ch.ID, "ln-1", []byte("RIFF-bytes"), "src-abc", "1_a.wav")
	require.NoError(t, err)

	got, err := s.GetChapter(ch.ID)
	require.NoError(t, err)
	require.NotEmpty(t, got.Lines[0].AudioBlobID)

	blob, err := s.GetAudioBlob(got.Lines[0].AudioBlobID)
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF-bytes"), blob.Data)
	assert.Equal(t, "src-abc", blob.SourceAudioID)
	assert.Equal(t, "1_a.wav", blob.SourceAudioFilename)
}

func TestAssignAudioToLine_UnknownLine(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	ch := &domain.Chapter{ProjectID: p.ID, Position: 1}
	require.NoError(t, s.CreateChapter(ch))

	err := s.AssignAudioToLine(context.Background(), p.ID, ch.ID, "ln-ghost", []byte("x"), "", "")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestDeleteBlobsBySource(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	ch := &domain.Chapter{
		ProjectID: p.ID,
		Position:  1,
		Lines: []domain.ScriptLine{
			{ID: "ln-1", Text: "a"},
			{ID: "ln-2", Text: "b"},
		},
	}
	require.NoError(t, s.CreateChapter(ch))

	ctx := context.Background()
	require.NoError(t, s.AssignAudioToLine(ctx, p.ID, ch.ID, "ln-1", []byte("one"), "src-x", "f.wav"))
	require.NoError(t, s.AssignAudioToLine(ctx, p.ID, ch.ID, "ln-2", []byte("two"), "src-x", "f.wav"))
	require.NoError(t, s.AssignAudioToLine(ctx, p.ID, ch.ID, "ln-2", []byte("tts"), "", ""))

	deleted, err := s.DeleteBlobsBySource("src-x")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted, "only blobs from src-x are deleted")

	// Second delete is a no-op: cleanup is idempotent.
	deleted, err = s.DeleteBlobsBySource("src-x")
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}

func TestMasterAudioOverwrite(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)

	m := &domain.MasterAudio{ID: "src-1", ProjectID: p.ID, Filename: "405_a.wav", Data: []byte("v1")}
	require.NoError(t, s.PutMasterAudio(m))

	m.Data = []byte("v2")
	require.NoError(t, s.PutMasterAudio(m))

	got, err := s.GetMasterAudio("src-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got.Data)
}
