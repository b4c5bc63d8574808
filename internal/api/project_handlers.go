package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scriptroom/scriptroom-server/internal/domain"
	"github.com/scriptroom/scriptroom-server/internal/http/response"
)

type createProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger.Logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}

	p := &domain.Project{Name: req.Name}
	if err := s.store.CreateProject(p); err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}
	response.Created(w, p, s.logger.Logger)
}

func (s *Server) handleListProjects(w http.ResponseWriter, _ *http.Request) {
	projects, err := s.store.ListProjects()
	if err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}
	response.Success(w, projects, s.logger.Logger)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProject(chi.URLParam(r, "projectID"))
	if err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}
	response.Success(w, p, s.logger.Logger)
}
