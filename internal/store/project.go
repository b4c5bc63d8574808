package store

import (
	"encoding/json/v2"
	"time"

	"github.com/scriptroom/scriptroom-server/internal/domain"
	domainerrors "github.com/scriptroom/scriptroom-server/internal/errors"
	"github.com/scriptroom/scriptroom-server/internal/id"
)

// CreateProject persists a new project. A missing ID is generated.
func (s *Store) CreateProject(p *domain.Project) error {
	if p.ID == "" {
		generated, err := id.Generate("prj")
		if err != nil {
			return err
		}
		p.ID = generated
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.set(projectKey(p.ID), p)
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(projectID string) (*domain.Project, error) {
	var p domain.Project
	if err := s.get(projectKey(projectID), &p); err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFoundf("project %s not found", projectID)
		}
		return nil, err
	}
	return &p, nil
}

// ListProjects returns all projects.
func (s *Store) ListProjects() ([]domain.Project, error) {
	var projects []domain.Project
	err := s.iteratePrefix([]byte(prefixProject), func(val []byte) error {
		var p domain.Project
		if err := json.Unmarshal(val, &p); err != nil {
			return err
		}
		projects = append(projects, p)
		return nil
	})
	return projects, err
}

// UpdateProject overwrites a project record.
func (s *Store) UpdateProject(p *domain.Project) error {
	if _, err := s.GetProject(p.ID); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.set(projectKey(p.ID), p)
}
