package service

import (
	"context"
	"errors"
	"sync"

	clientserrors "gearpool/internal/clients/errors"
	"gearpool/internal/clients/repository"
	"gearpool/internal/clients/validator"
	"gearpool/pkg/config"
	apperrors "gearpool/pkg/errors"
	"gearpool/pkg/model"
	"gearpool/pkg/sanitizer"
)

type ClientService interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, id string) (*model.Client, error)
	GetByPhone(ctx context.Context, phone string) (*model.Client, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Client, int64, error)
	Update(ctx context.Context, id string, updates *model.ClientUpdate) (*model.Client, error)
	Delete(ctx context.Context, id string) error
}

type clientService struct {
	repo      repository.ClientRepository
	validator *validator.ClientValidator
	cfg       *config.Config
}

func NewClientService(repo repository.ClientRepository, clientValidator *validator.ClientValidator, cfg *config.Config) ClientService {
	return &clientService{
		repo:      repo,
		validator: clientValidator,
		cfg:       cfg,
	}
}

func (s *clientService) Create(ctx context.Context, client *model.Client) error {
	s.sanitize(client)

	if err := s.validator.Validate(client); err != nil {
		s.cfg.Log.Warn("Client validation failed", "error", err)
		return apperrors.Validation("Client validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, client); err != nil {
		if errors.Is(err, clientserrors.ErrDuplicatePhone) {
			return apperrors.Conflict("Phone number is already registered", map[string]any{
				"phone": client.Phone,
			})
		}
		s.cfg.Log.Error("Failed to create client", "error", err)
		return apperrors.Internal("Failed to create client", err)
	}

	s.cfg.Log.Info("Client created", "id", client.ID, "name", client.Name)
	return nil
}

func (s *clientService) GetByID(ctx context.Context, id string) (*model.Client, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Client ID cannot be empty")
	}

	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, clientserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Client", id)
		}
		if errors.Is(err, clientserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid client ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve client", err)
	}

	return client, nil
}

func (s *clientService) GetByPhone(ctx context.Context, phone string) (*model.Client, error) {
	normalized := sanitizer.NormalizePhone(phone)
	if normalized == "" {
		return nil, apperrors.InvalidInput("Phone number is not valid")
	}

	client, err := s.repo.FindByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, clientserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Client")
		}
		return nil, apperrors.Internal("Failed to retrieve client", err)
	}

	return client, nil
}

func (s *clientService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Client, int64, error) {
	var count int64
	var clients []*model.Client
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count clients", "error", errCount)
			errCount = apperrors.Internal("Failed to count clients", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		clients, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list clients", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve clients", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return clients, count, nil
}

func (s *clientService) Update(ctx context.Context, id string, updates *model.ClientUpdate) (*model.Client, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.Phone != "" {
		updates.Phone = sanitizer.NormalizePhone(updates.Phone)
		if updates.Phone == "" {
			return nil, apperrors.InvalidInput("Phone number is not valid")
		}
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Client update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return nil, apperrors.Validation("Client validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, clientserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Client", id)
		}
		if errors.Is(err, clientserrors.ErrDuplicatePhone) {
			return nil, apperrors.Conflict("Phone number is already registered", map[string]any{
				"phone": merged.Phone,
			})
		}
		s.cfg.Log.Error("Failed to update client", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update client", err)
	}

	s.cfg.Log.Info("Client updated", "id", id)
	return merged, nil
}

func (s *clientService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, clientserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Client", id)
		}
		return apperrors.Internal("Failed to delete client", err)
	}

	s.cfg.Log.Info("Client deleted", "id", id)
	return nil
}

func (s *clientService) sanitize(c *model.Client) {
	c.Name = sanitizer.NormalizeName(c.Name)
	c.Company = sanitizer.NormalizeName(c.Company)
	c.Phone = sanitizer.NormalizePhone(c.Phone)
	c.Email = sanitizer.TrimAndNormalize(c.Email)
	c.Notes = sanitizer.TrimAndNormalize(c.Notes)
}

func (s *clientService) mergeUpdates(existing *model.Client, updates *model.ClientUpdate) *model.Client {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Company != nil {
		merged.Company = *updates.Company
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.Email != nil {
		merged.Email = *updates.Email
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}
