package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/scriptroom/scriptroom-server/internal/http/response"
)

// handleGetAudio serves a sliced or synthesized clip. Clips are stored as
// WAV regardless of the master's container.
func (s *Server) handleGetAudio(w http.ResponseWriter, r *http.Request) {
	blob, err := s.store.GetAudioBlob(chi.URLParam(r, "blobID"))
	if err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	_, _ = w.Write(blob.Data)
}

// handleGetMasterAudio serves an imported master recording as uploaded.
func (s *Server) handleGetMasterAudio(w http.ResponseWriter, r *http.Request) {
	master, err := s.store.GetMasterAudio(chi.URLParam(r, "masterID"))
	if err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}
	if master.ProjectID != chi.URLParam(r, "projectID") {
		response.NotFound(w, "master audio not found in this project", s.logger.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+master.Filename+"\"")
	w.Header().Set("Content-Length", strconv.Itoa(len(master.Data)))
	_, _ = w.Write(master.Data)
}
