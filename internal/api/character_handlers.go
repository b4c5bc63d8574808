package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scriptroom/scriptroom-server/internal/domain"
	"github.com/scriptroom/scriptroom-server/internal/http/response"
)

type createCharacterRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=100"`
	CVName string `json:"cv_name" validate:"max=100"`
}

func (s *Server) handleCreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req createCharacterRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger.Logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	if _, err := s.store.GetProject(projectID); err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}

	c := &domain.Character{Name: req.Name, CVName: req.CVName, ProjectID: projectID}
	if err := s.store.CreateCharacter(c); err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}
	response.Created(w, c, s.logger.Logger)
}

func (s *Server) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	characters, err := s.store.ListCharacters(chi.URLParam(r, "projectID"))
	if err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}
	response.Success(w, characters, s.logger.Logger)
}

type mergeCharacterRequest struct {
	Into string `json:"into" validate:"required"`
}

// handleMergeCharacter folds the path character into the one named in the
// body; script lines are relinked to the survivor.
func (s *Server) handleMergeCharacter(w http.ResponseWriter, r *http.Request) {
	var req mergeCharacterRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger.Logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	sourceID := chi.URLParam(r, "characterID")
	if err := s.store.MergeCharacter(projectID, sourceID, req.Into); err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}
	response.NoContent(w)
}

// handleGenerateVoice batch-synthesizes audio for every line of the
// character through the local TTS service.
func (s *Server) handleGenerateVoice(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	characterID := chi.URLParam(r, "characterID")
	overwrite := r.URL.Query().Get("overwrite") == "true"

	report, err := s.generator.GenerateForCharacter(r.Context(), projectID, characterID, overwrite)
	if err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}
	response.Success(w, report, s.logger.Logger)
}
