package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scriptroom/scriptroom-server/internal/domain"
	"github.com/scriptroom/scriptroom-server/internal/http/response"
	"github.com/scriptroom/scriptroom-server/internal/id"
)

type createChapterRequest struct {
	Position int                 `json:"position" validate:"required,min=1"`
	Title    string              `json:"title" validate:"max=200"`
	Lines    []createLineRequest `json:"lines" validate:"dive"`
}

type createLineRequest struct {
	Text        string `json:"text" validate:"required"`
	CharacterID string `json:"character_id"`
}

func (s *Server) handleCreateChapter(w http.ResponseWriter, r *http.Request) {
	var req createChapterRequest
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

	lines := make([]domain.ScriptLine, len(req.Lines))
	for i, l := range req.Lines {
		lineID, err := id.Generate("line")
		if err != nil {
			response.HandleError(w, err, s.logger.Logger)
			return
		}
		lines[i] = domain.ScriptLine{ID: lineID, Text: l.Text, CharacterID: l.CharacterID}
	}

	c := &domain.Chapter{
		ProjectID: projectID,
		Position:  req.Position,
		Title:     req.Title,
		Lines:     lines,
	}
	if err := s.store.CreateChapter(c); err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}
	response.Created(w, c, s.logger.Logger)
}

func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := s.store.ListChapters(chi.URLParam(r, "projectID"))
	if err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}
	response.Success(w, chapters, s.logger.Logger)
}

func (s *Server) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetChapter(chi.URLParam(r, "chapterID"))
	if err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}
	if c.ProjectID != chi.URLParam(r, "projectID") {
		response.NotFound(w, "chapter not found in this project", s.logger.Logger)
		return
	}
	response.Success(w, c, s.logger.Logger)
}
