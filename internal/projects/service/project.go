package service

import (
	"context"
	"errors"
	"sync"

	projectserrors "gearpool/internal/projects/errors"
	"gearpool/internal/projects/repository"
	"gearpool/internal/projects/validator"
	"gearpool/pkg/client"
	"gearpool/pkg/config"
	apperrors "gearpool/pkg/errors"
	"gearpool/pkg/model"
	"gearpool/pkg/sanitizer"
)

type ProjectService interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	GetByClient(ctx context.Context, clientID string, limit int, offset int64) ([]*model.Project, int64, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Project, int64, error)
	Update(ctx context.Context, id string, updates *model.ProjectUpdate) (*model.Project, error)
	UpdateStatus(ctx context.Context, id string, status model.ProjectStatus) (*model.Project, error)
	Delete(ctx context.Context, id string) error
}

type projectService struct {
	repo      repository.ProjectRepository
	validator *validator.ProjectValidator
	clients   *client.ClientsClient
	cfg       *config.Config
}

// NewProjectService builds the project service. The clients client is
// optional; without it client references are stored unverified.
func NewProjectService(
	repo repository.ProjectRepository,
	projectValidator *validator.ProjectValidator,
	clients *client.ClientsClient,
	cfg *config.Config,
) ProjectService {
	return &projectService{
		repo:      repo,
		validator: projectValidator,
		clients:   clients,
		cfg:       cfg,
	}
}

func (s *projectService) Create(ctx context.Context, project *model.Project) error {
	s.sanitize(project)
	if project.Status == "" {
		project.Status = model.ProjectPlanned
	}

	if err := s.validator.Validate(project); err != nil {
		s.cfg.Log.Warn("Project validation failed", "error", err)
		return apperrors.Validation("Project validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.verifyClient(ctx, project.ClientID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, project); err != nil {
		s.cfg.Log.Error("Failed to create project", "error", err)
		return apperrors.Internal("Failed to create project", err)
	}

	s.cfg.Log.Info("Project created", "id", project.ID, "name", project.Name, "client_id", project.ClientID)
	return nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*model.Project, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Project ID cannot be empty")
	}

	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, projectserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Project", id)
		}
		if errors.Is(err, projectserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid project ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve project", err)
	}

	return project, nil
}

func (s *projectService) GetByClient(ctx context.Context, clientID string, limit int, offset int64) ([]*model.Project, int64, error) {
	if clientID == "" {
		return nil, 0, apperrors.InvalidInput("Client ID cannot be empty")
	}

	var count int64
	var projects []*model.Project
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByClient(ctx, clientID)
		if err != nil {
			s.cfg.Log.Error("Failed to count projects", "client_id", clientID, "error", err)
			errCount = apperrors.Internal("Failed to count projects", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		projects, err = s.repo.FindByClient(ctx, clientID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list projects", "client_id", clientID, "error", err)
			errFind = apperrors.Internal("Failed to retrieve projects", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return projects, count, nil
}

func (s *projectService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Project, int64, error) {
	var count int64
	var projects []*model.Project
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count projects", "error", errCount)
			errCount = apperrors.Internal("Failed to count projects", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		projects, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list projects", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve projects", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return projects, count, nil
}

func (s *projectService) Update(ctx context.Context, id string, updates *model.ProjectUpdate) (*model.Project, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Project update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	if updates.Status != "" && updates.Status != existing.Status {
		if err := s.validator.ValidateStatusTransition(existing.Status, updates.Status); err != nil {
			return nil, apperrors.Conflict(err.Error(), nil)
		}
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return nil, apperrors.Validation("Project validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, projectserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Project", id)
		}
		s.cfg.Log.Error("Failed to update project", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update project", err)
	}

	s.cfg.Log.Info("Project updated", "id", id)
	return merged, nil
}

func (s *projectService) UpdateStatus(ctx context.Context, id string, status model.ProjectStatus) (*model.Project, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateStatusTransition(existing.Status, status); err != nil {
		return nil, apperrors.Conflict(err.Error(), nil)
	}

	project, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, projectserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Project", id)
		}
		s.cfg.Log.Error("Failed to update project status", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update project status", err)
	}

	s.cfg.Log.Info("Project status updated", "id", id, "status", status)
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, projectserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Project", id)
		}
		return apperrors.Internal("Failed to delete project", err)
	}

	s.cfg.Log.Info("Project deleted", "id", id)
	return nil
}

func (s *projectService) verifyClient(ctx context.Context, clientID string) error {
	if s.clients == nil {
		return nil
	}

	resp, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return apperrors.Internal("Failed to verify client", err)
	}
	if resp.StatusCode == 404 {
		return apperrors.Validation("Client does not exist", map[string]any{"client_id": clientID})
	}
	if resp.StatusCode >= 400 {
		return apperrors.Internal("Failed to verify client", errors.New(client.GetErrorMessage(resp)))
	}
	return nil
}

func (s *projectService) sanitize(p *model.Project) {
	p.Name = sanitizer.NormalizeName(p.Name)
	p.Site = sanitizer.TrimAndNormalize(p.Site)
	p.Notes = sanitizer.TrimAndNormalize(p.Notes)
}

func (s *projectService) mergeUpdates(existing *model.Project, updates *model.ProjectUpdate) *model.Project {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Site != nil {
		merged.Site = *updates.Site
	}
	if updates.StartDate != nil {
		merged.StartDate = *updates.StartDate
	}
	if updates.EndDate != nil {
		merged.EndDate = *updates.EndDate
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}
