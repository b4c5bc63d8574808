package align

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// BatchFile is one user-selected master recording.
type BatchFile struct {
	Filename string
	Data     []byte
}

// ProcessBatch runs every file through the per-file protocol in input
// order. One file's failure never aborts the batch; each file yields
// exactly one result. Files are processed sequentially because a decoded
// master is held fully in memory while it is sliced.
func (o *Orchestrator) ProcessBatch(ctx context.Context, projectID string, files []BatchFile, axis MatchAxis) ([]FileProcessResult, error) {
	results := make([]FileProcessResult, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		chapterIdent, charIdent, err := splitFilename(f.Filename, axis)
		if err != nil {
			results = append(results, FileProcessResult{
				Filename:     f.Filename,
				ErrorMessage: err.Error(),
			})
			continue
		}

		result, err := o.processGuarded(ctx, projectID, f, chapterIdent, charIdent, axis)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// processGuarded converts a panic inside the per-file protocol into a
// failure result, keeping the batch's partial-failure isolation intact.
func (o *Orchestrator) processGuarded(ctx context.Context, projectID string, f BatchFile, chapterIdent, charIdent string, axis MatchAxis) (result FileProcessResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("panic while processing file", "file", f.Filename, "panic", r)
			result = FileProcessResult{
				Filename:     f.Filename,
				ChapterRange: chapterIdent,
				ErrorMessage: fmt.Sprintf("unexpected failure: %v", r),
			}
			err = nil
		}
	}()
	return o.ProcessFile(ctx, projectID, f.Filename, f.Data, chapterIdent, charIdent, axis)
}

// splitFilename derives the chapter and character tokens from a filename of
// the form <chapter>_<name>[_<anything>].<ext>. Tokens past the second are
// descriptive suffixes and are ignored. Chapter-only matching needs no name
// token.
func splitFilename(filename string, axis MatchAxis) (chapterIdent, charIdent string, err error) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	tokens := strings.Split(base, "_")

	chapterIdent = tokens[0]
	if chapterIdent == "" {
		return "", "", fmt.Errorf("filename %q does not start with a chapter number (expected <chapter>_<name>.<ext>)", filename)
	}
	if axis == AxisChapter {
		return chapterIdent, "", nil
	}
	if len(tokens) < 2 || tokens[1] == "" {
		return "", "", fmt.Errorf("filename %q has no character token (expected <chapter>_<name>.<ext>)", filename)
	}
	return chapterIdent, tokens[1], nil
}
