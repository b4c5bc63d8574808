package store

import (
	"github.com/dgraph-io/badger/v4"

	"github.com/scriptroom/scriptroom-server/internal/domain"
	domainerrors "github.com/scriptroom/scriptroom-server/internal/errors"
	"github.com/scriptroom/scriptroom-server/internal/id"
)

// CreateCharacter persists a new character and its project index entry.
func (s *Store) CreateCharacter(c *domain.Character) error {
	if c.ID == "" {
		generated, err := id.Generate("chr")
		if err != nil {
			return err
		}
		c.ID = generated
	}
	if c.Status == "" {
		c.Status = domain.CharacterActive
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := setInTxn(txn, charKey(c.ID), c); err != nil {
			return err
		}
		return txn.Set(charProjectIdxKey(c.ProjectID, c.ID), []byte(c.ID))
	})
}

// GetCharacter retrieves a character by ID.
func (s *Store) GetCharacter(charID string) (*domain.Character, error) {
	var c domain.Character
	if err := s.get(charKey(charID), &c); err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFoundf("character %s not found", charID)
		}
		return nil, err
	}
	return &c, nil
}

// UpdateCharacter overwrites a character record.
func (s *Store) UpdateCharacter(c *domain.Character) error {
	if _, err := s.GetCharacter(c.ID); err != nil {
		return err
	}
	return s.set(charKey(c.ID), c)
}

// ListCharacters returns a project's roster: its own characters plus global
// template characters (empty project scope).
func (s *Store) ListCharacters(projectID string) ([]domain.Character, error) {
	ids, err := s.characterIDs(projectID)
	if err != nil {
		return nil, err
	}
	if projectID != "" {
		globals, err := s.characterIDs("")
		if err != nil {
			return nil, err
		}
		ids = append(ids, globals...)
	}

	characters := make([]domain.Character, 0, len(ids))
	for _, charID := range ids {
		c, err := s.GetCharacter(charID)
		if err != nil {
			return nil, err
		}
		characters = append(characters, *c)
	}
	return characters, nil
}

// characterIDs scans the project index for character IDs.
func (s *Store) characterIDs(projectID string) ([]string, error) {
	prefix := []byte(idxCharProject + projectID + ":")
	var ids []string
	err := s.iteratePrefix(prefix, func(val []byte) error {
		ids = append(ids, string(val))
		return nil
	})
	return ids, err
}

// MergeCharacter folds the character into the surviving one: the source is
// marked merged (soft delete, it stays resolvable by ID) and every script
// line pointing at it is relinked to the survivor.
func (s *Store) MergeCharacter(projectID, sourceID, survivorID string) error {
	source, err := s.GetCharacter(sourceID)
	if err != nil {
		return err
	}
	if _, err := s.GetCharacter(survivorID); err != nil {
		return err
	}
	if source.Status == domain.CharacterMerged {
		return domainerrors.Conflict("character is already merged")
	}

	source.Status = domain.CharacterMerged
	source.MergedInto = survivorID
	if err := s.set(charKey(source.ID), source); err != nil {
		return err
	}

	chapters, err := s.ListChapters(projectID)
	if err != nil {
		return err
	}
	for i := range chapters {
		changed := false
		for j := range chapters[i].Lines {
			if chapters[i].Lines[j].CharacterID == sourceID {
				chapters[i].Lines[j].CharacterID = survivorID
				changed = true
			}
		}
		if changed {
			if err := s.set(chapterKey(chapters[i].ID), &chapters[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
