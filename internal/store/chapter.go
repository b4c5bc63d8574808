package store

import (
	"github.com/dgraph-io/badger/v4"

	"github.com/scriptroom/scriptroom-server/internal/domain"
	domainerrors "github.com/scriptroom/scriptroom-server/internal/errors"
	"github.com/scriptroom/scriptroom-server/internal/id"
)

// CreateChapter persists a new chapter and its ordered project index entry.
// Position must be the chapter's 1-based place in the script.
func (s *Store) CreateChapter(c *domain.Chapter) error {
	if c.ID == "" {
		generated, err := id.Generate("chp")
		if err != nil {
			return err
		}
		c.ID = generated
	}
	if c.Position < 1 {
		return domainerrors.Validation("chapter position must be 1-based")
	}
	if c.Lines == nil {
		c.Lines = []domain.ScriptLine{}
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := setInTxn(txn, chapterKey(c.ID), c); err != nil {
			return err
		}
		return txn.Set(chapterProjectIdxKey(c.ProjectID, c.Position, c.ID), []byte(c.ID))
	})
}

// GetChapter retrieves a chapter by ID.
func (s *Store) GetChapter(chapterID string) (*domain.Chapter, error) {
	var c domain.Chapter
	if err := s.get(chapterKey(chapterID), &c); err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFoundf("chapter %s not found", chapterID)
		}
		return nil, err
	}
	return &c, nil
}

// UpdateChapter overwrites a chapter record. Position changes are not
// supported through this method; reordering rewrites the index separately.
func (s *Store) UpdateChapter(c *domain.Chapter) error {
	existing, err := s.GetChapter(c.ID)
	if err != nil {
		return err
	}
	if existing.Position != c.Position {
		return domainerrors.Validation("chapter position cannot be changed by update")
	}
	return s.set(chapterKey(c.ID), c)
}

// ListChapters returns a project's chapters in script order. The ordered
// index makes the 1-based slice position equal each chapter's Position.
func (s *Store) ListChapters(projectID string) ([]domain.Chapter, error) {
	prefix := []byte(idxChapterProject + projectID + ":")
	var ids []string
	if err := s.iteratePrefix(prefix, func(val []byte) error {
		ids = append(ids, string(val))
		return nil
	}); err != nil {
		return nil, err
	}

	chapters := make([]domain.Chapter, 0, len(ids))
	for _, chapterID := range ids {
		c, err := s.GetChapter(chapterID)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, *c)
	}
	return chapters, nil
}
