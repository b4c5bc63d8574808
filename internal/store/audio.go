package store

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/scriptroom/scriptroom-server/internal/domain"
	domainerrors "github.com/scriptroom/scriptroom-server/internal/errors"
	"github.com/scriptroom/scriptroom-server/internal/id"
)

// AssignAudioToLine is the sole mutation path for line audio: it stores the
// blob and repoints the target line's AudioBlobID at it in one transaction.
// sourceID and sourceFilename are empty for TTS-synthesized clips.
func (s *Store) AssignAudioToLine(ctx context.Context, projectID, chapterID, lineID string, data []byte, sourceID, sourceFilename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	blobID, err := id.Generate("blob")
	if err != nil {
		return err
	}
	blob := domain.AudioBlob{
		ID:                  blobID,
		Data:                data,
		SourceAudioID:       sourceID,
		SourceAudioFilename: sourceFilename,
		CreatedAt:           time.Now().UTC(),
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var chapter domain.Chapter
		if err := getInTxn(txn, chapterKey(chapterID), &chapter); err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFoundf("chapter %s not found", chapterID)
			}
			return err
		}
		if chapter.ProjectID != projectID {
			return domainerrors.Conflict("chapter does not belong to project")
		}

		lineIdx := -1
		for i := range chapter.Lines {
			if chapter.Lines[i].ID == lineID {
				lineIdx = i
				break
			}
		}
		if lineIdx < 0 {
			return domainerrors.NotFoundf("line %s not found in chapter %s", lineID, chapterID)
		}

		if err := setInTxn(txn, blobKey(blob.ID), &blob); err != nil {
			return err
		}
		if blob.SourceAudioID != "" {
			if err := txn.Set(blobSourceIdxKey(blob.SourceAudioID, blob.ID), []byte(blob.ID)); err != nil {
				return err
			}
		}

		chapter.Lines[lineIdx].AudioBlobID = blob.ID
		return setInTxn(txn, chapterKey(chapterID), &chapter)
	})
}

// GetAudioBlob retrieves a stored audio blob.
func (s *Store) GetAudioBlob(blobID string) (*domain.AudioBlob, error) {
	var b domain.AudioBlob
	if err := s.get(blobKey(blobID), &b); err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFoundf("audio blob %s not found", blobID)
		}
		return nil, err
	}
	return &b, nil
}

// DeleteBlobsBySource removes every blob sliced from the given master file.
// Lines pointing at deleted blobs are left dangling on purpose: the following
// re-import overwrites their AudioBlobID, and readers treat a dangling
// reference as "no audio". Returns the number of blobs deleted.
func (s *Store) DeleteBlobsBySource(sourceID string) (int, error) {
	prefix := []byte(idxBlobSource + sourceID + ":")
	var blobIDs []string
	if err := s.iteratePrefix(prefix, func(val []byte) error {
		blobIDs = append(blobIDs, string(val))
		return nil
	}); err != nil {
		return 0, err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, blobID := range blobIDs {
			if err := txn.Delete(blobKey(blobID)); err != nil {
				return err
			}
			if err := txn.Delete(blobSourceIdxKey(sourceID, blobID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(blobIDs), nil
}

// PutMasterAudio stores (or overwrites) an imported master recording.
func (s *Store) PutMasterAudio(m *domain.MasterAudio) error {
	if m.ID == "" {
		return domainerrors.Validation("master audio ID is required")
	}
	m.ImportedAt = time.Now().UTC()
	return s.set(masterKey(m.ID), m)
}

// GetMasterAudio retrieves an imported master recording.
func (s *Store) GetMasterAudio(masterID string) (*domain.MasterAudio, error) {
	var m domain.MasterAudio
	if err := s.get(masterKey(masterID), &m); err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFoundf("master audio %s not found", masterID)
		}
		return nil, err
	}
	return &m, nil
}
