package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scriptroom/scriptroom-server/internal/align"
	"github.com/scriptroom/scriptroom-server/internal/http/response"
)

// maxImportMemory bounds how much of a multipart upload is buffered in
// memory before spilling to temp files.
const maxImportMemory = 64 << 20

type importResponse struct {
	Results []align.FileProcessResult `json:"results"`
	Summary string                    `json:"summary"`
}

// handleImport accepts master recordings as a multipart upload (field
// "files") and runs them through the alignment engine. The match axis comes
// from the "axis" query parameter and defaults to chapter-only matching.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, err := s.store.GetProject(projectID); err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}

	axis := align.MatchAxis(r.URL.Query().Get("axis"))
	if axis == "" {
		axis = align.AxisChapter
	}
	if !axis.Valid() {
		response.BadRequest(w, fmt.Sprintf("unknown match axis %q (want cv, character, or chapter)", axis), s.logger.Logger)
		return
	}

	if err := r.ParseMultipartForm(maxImportMemory); err != nil {
		response.BadRequest(w, "invalid multipart upload", s.logger.Logger)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		response.BadRequest(w, "no files uploaded (use multipart field \"files\")", s.logger.Logger)
		return
	}

	files := make([]align.BatchFile, 0, len(uploads))
	for _, header := range uploads {
		data, err := readUpload(header)
		if err != nil {
			response.BadRequest(w, fmt.Sprintf("reading upload %q: %v", header.Filename, err), s.logger.Logger)
			return
		}
		files = append(files, align.BatchFile{Filename: header.Filename, Data: data})
	}

	results, err := s.orchestrator.ProcessBatch(r.Context(), projectID, files, axis)
	if err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}

	response.Success(w, importResponse{
		Results: results,
		Summary: align.Summarize(results),
	}, s.logger.Logger)
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
