package service

import (
	"context"
	"errors"
	"sync"

	equipmenterrors "gearpool/internal/equipment/errors"
	"gearpool/internal/equipment/repository"
	"gearpool/internal/equipment/validator"
	"gearpool/pkg/client"
	"gearpool/pkg/config"
	apperrors "gearpool/pkg/errors"
	"gearpool/pkg/model"
	"gearpool/pkg/sanitizer"
)

type EquipmentService interface {
	Create(ctx context.Context, equipment *model.Equipment) error
	GetByID(ctx context.Context, id string) (*model.Equipment, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Equipment, int64, error)
	SearchByCategory(ctx context.Context, category string, limit int, offset int64) ([]*model.Equipment, int64, error)
	Update(ctx context.Context, id string, updates *model.EquipmentUpdate) (*model.Equipment, error)
	Delete(ctx context.Context, id string) error
}

type equipmentService struct {
	repo      repository.EquipmentRepository
	validator *validator.EquipmentValidator
	bookings  *client.BookingsClient
	cfg       *config.Config
}

// NewEquipmentService builds the catalog service. The bookings client is
// optional; without it the delete guard against booked equipment is
// skipped.
func NewEquipmentService(
	repo repository.EquipmentRepository,
	equipmentValidator *validator.EquipmentValidator,
	bookings *client.BookingsClient,
	cfg *config.Config,
) EquipmentService {
	return &equipmentService{
		repo:      repo,
		validator: equipmentValidator,
		bookings:  bookings,
		cfg:       cfg,
	}
}

func (s *equipmentService) Create(ctx context.Context, equipment *model.Equipment) error {
	s.sanitize(equipment)
	if equipment.Unique {
		equipment.TotalQuantity = 1
	}

	if err := s.validator.Validate(equipment); err != nil {
		s.cfg.Log.Warn("Equipment validation failed", "error", err)
		return apperrors.Validation("Equipment validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, equipment); err != nil {
		if errors.Is(err, equipmenterrors.ErrDuplicateSerial) {
			return apperrors.Conflict("Serial number is already registered", map[string]any{
				"serial_number": equipment.SerialNumber,
			})
		}
		s.cfg.Log.Error("Failed to create equipment", "error", err)
		return apperrors.Internal("Failed to create equipment", err)
	}

	s.cfg.Log.Info("Equipment created",
		"id", equipment.ID,
		"name", equipment.Name,
		"category", equipment.Category,
		"unique", equipment.Unique,
	)
	return nil
}

func (s *equipmentService) GetByID(ctx context.Context, id string) (*model.Equipment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Equipment ID cannot be empty")
	}

	equipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, equipmenterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Equipment", id)
		}
		if errors.Is(err, equipmenterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid equipment ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve equipment", err)
	}

	return equipment, nil
}

func (s *equipmentService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Equipment, int64, error) {
	var count int64
	var equipment []*model.Equipment
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count equipment", "error", errCount)
			errCount = apperrors.Internal("Failed to count equipment", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		equipment, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list equipment", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve equipment", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return equipment, count, nil
}

func (s *equipmentService) SearchByCategory(ctx context.Context, category string, limit int, offset int64) ([]*model.Equipment, int64, error) {
	category = sanitizer.NormalizeLabel(category)
	if category == "" {
		return nil, 0, apperrors.InvalidInput("Category cannot be empty")
	}

	var count int64
	var equipment []*model.Equipment
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByCategory(ctx, category)
		if err != nil {
			s.cfg.Log.Error("Failed to count equipment by category", "category", category, "error", err)
			errCount = apperrors.Internal("Failed to count equipment", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		equipment, err = s.repo.FindByCategory(ctx, category, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search equipment", "category", category, "error", err)
			errFind = apperrors.Internal("Failed to search equipment", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return equipment, count, nil
}

func (s *equipmentService) Update(ctx context.Context, id string, updates *model.EquipmentUpdate) (*model.Equipment, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Equipment update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return nil, apperrors.Validation("Equipment validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, equipmenterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Equipment", id)
		}
		s.cfg.Log.Error("Failed to update equipment", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update equipment", err)
	}

	s.cfg.Log.Info("Equipment updated", "id", id)
	return merged, nil
}

// Delete refuses to remove gear that still has capacity-occupying
// bookings; orphaned bookings would silently stop counting.
func (s *equipmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if s.bookings != nil {
		resp, err := s.bookings.Search(ctx, id, "", "", "", 1, 0)
		if err != nil {
			return apperrors.Internal("Failed to check equipment bookings", err)
		}
		_, meta, err := s.bookings.DecodeBookings(resp)
		if err != nil {
			return apperrors.Internal("Failed to decode equipment bookings", err)
		}
		if meta.TotalCount > 0 {
			return apperrors.Conflict("Equipment still has bookings", map[string]any{
				"booking_count": meta.TotalCount,
			})
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, equipmenterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Equipment", id)
		}
		return apperrors.Internal("Failed to delete equipment", err)
	}

	s.cfg.Log.Info("Equipment deleted", "id", id)
	return nil
}

func (s *equipmentService) sanitize(e *model.Equipment) {
	e.Name = sanitizer.NormalizeName(e.Name)
	e.Category = sanitizer.NormalizeLabel(e.Category)
	e.SerialNumber = sanitizer.NormalizeSerial(e.SerialNumber)
	e.Notes = sanitizer.TrimAndNormalize(e.Notes)
}

func (s *equipmentService) mergeUpdates(existing *model.Equipment, updates *model.EquipmentUpdate) *model.Equipment {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Category != "" {
		merged.Category = updates.Category
	}
	if updates.TotalQuantity != nil {
		merged.TotalQuantity = *updates.TotalQuantity
	}
	if updates.SerialNumber != nil {
		merged.SerialNumber = *updates.SerialNumber
	}
	if updates.DailyRateCents != nil {
		merged.DailyRateCents = *updates.DailyRateCents
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}
