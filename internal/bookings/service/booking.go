package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gearpool/internal/bookings/engine"
	bookingserrors "gearpool/internal/bookings/errors"
	"gearpool/internal/bookings/repository"
	"gearpool/internal/bookings/validator"
	"gearpool/pkg/config"
	apperrors "gearpool/pkg/errors"
	"gearpool/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// CapacityProvider resolves an item's capacity policy. Unique vs pooled
// is decided once at this boundary and never re-inferred downstream.
type CapacityProvider interface {
	GetCapacity(ctx context.Context, equipmentID string) (model.EquipmentCapacity, error)
}

type BookingService interface {
	CheckAvailability(ctx context.Context, req *model.AvailabilityRequest) (*model.AvailabilityResult, error)
	CheckBatchAvailability(ctx context.Context, reqs []*model.AvailabilityRequest) ([]*model.AvailabilityResult, error)
	CommitBatch(ctx context.Context, specs []*model.BookingSpec) (*model.BatchResult, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Search(ctx context.Context, filter repository.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
}

// bookingService coordinates booking transactions: it serializes access
// per equipment item, consults the conflict detector against a hydrated
// interval snapshot, folds duplicate pooled requests through the
// aggregator, and commits through the repository.
type bookingService struct {
	repo       repository.BookingRepository
	lockRepo   repository.ReservationLockRepository
	validator  *validator.BookingValidator
	capacity   CapacityProvider
	store      *engine.IntervalStore
	detector   *engine.ConflictDetector
	aggregator *engine.QuantityAggregator
	locks      *engine.EquipmentLocks
	events     EventPublisher
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.ReservationLockRepository,
	bookingValidator *validator.BookingValidator,
	capacity CapacityProvider,
	events EventPublisher,
	cfg *config.Config,
) BookingService {
	store := engine.NewIntervalStore()
	if events == nil {
		events = NoopPublisher{}
	}
	return &bookingService{
		repo:       repo,
		lockRepo:   lockRepo,
		validator:  bookingValidator,
		capacity:   capacity,
		store:      store,
		detector:   engine.NewConflictDetector(store),
		aggregator: engine.NewQuantityAggregator(store),
		locks:      engine.NewEquipmentLocks(),
		events:     events,
		cfg:        cfg,
	}
}

// CheckAvailability is the advisory pre-flight path. It locks the item
// so the snapshot it reads is consistent, but commits nothing; a caller
// must still expect a later commit to fail if someone books in between.
func (s *bookingService) CheckAvailability(ctx context.Context, req *model.AvailabilityRequest) (*model.AvailabilityResult, error) {
	if err := s.validator.ValidateAvailabilityRequest(req); err != nil {
		return nil, apperrors.Validation("Invalid availability request", map[string]any{"error": err.Error()})
	}

	capacity, err := s.capacity.GetCapacity(ctx, req.EquipmentID)
	if err != nil {
		return nil, err
	}

	release, err := s.locks.Acquire(ctx, req.EquipmentID, s.cfg.LockWaitTimeout)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.hydrate(ctx, req.EquipmentID); err != nil {
		return nil, err
	}

	return s.detector.Check(capacity, req.StartTime, req.EndTime, req.Quantity)
}

// CheckBatchAvailability runs independent per-item checks in submission
// order. Items are not locked against each other; a failed lookup or
// malformed item is reported in place as an unavailable result rather
// than failing the whole call.
func (s *bookingService) CheckBatchAvailability(ctx context.Context, reqs []*model.AvailabilityRequest) ([]*model.AvailabilityResult, error) {
	if len(reqs) == 0 {
		return nil, apperrors.Validation("At least one availability request is required", nil)
	}
	if len(reqs) > s.cfg.MaxBatchSize {
		return nil, apperrors.Validation(fmt.Sprintf("Batch size exceeds maximum of %d", s.cfg.MaxBatchSize), nil)
	}

	results := make([]*model.AvailabilityResult, len(reqs))
	for i, req := range reqs {
		res, err := s.CheckAvailability(ctx, req)
		if err != nil {
			results[i] = &model.AvailabilityResult{
				Available: false,
				Conflicts: []model.ConflictEntry{{
					StartTime:        req.StartTime,
					EndTime:          req.EndTime,
					RequiredQuantity: req.Quantity,
					Reason:           err.Error(),
				}},
			}
			continue
		}
		results[i] = res
	}

	return results, nil
}

// CommitBatch processes the specs in submission order. Validation and
// conflict failures are recorded per item and the loop continues; only a
// persistence failure aborts the remaining specs. Already-committed
// bookings are never rolled back, each is independently valid.
func (s *bookingService) CommitBatch(ctx context.Context, specs []*model.BookingSpec) (*model.BatchResult, error) {
	if len(specs) == 0 {
		return nil, apperrors.Validation("At least one booking spec is required", nil)
	}
	if len(specs) > s.cfg.MaxBatchSize {
		return nil, apperrors.Validation(fmt.Sprintf("Batch size exceeds maximum of %d", s.cfg.MaxBatchSize), nil)
	}

	result := &model.BatchResult{State: model.BatchProcessing}

	for i, spec := range specs {
		// Cooperative cancellation between specs. Committed items stay
		// committed.
		if ctx.Err() != nil {
			s.abortRemaining(result, specs, i, "batch cancelled before this spec was processed")
			break
		}

		booking, itemErr := s.commitOne(ctx, spec)
		if itemErr == nil {
			result.Bookings = append(result.Bookings, booking)
			result.CreatedCount++
			continue
		}

		appErr := apperrors.AsAppError(itemErr)
		if appErr.Code == apperrors.CodeUnavailable {
			// Persistence failure is fatal to the remainder of the batch.
			result.Errors = append(result.Errors, batchError(i, spec, appErr))
			s.abortRemaining(result, specs, i+1, "not processed: batch aborted after persistence failure")
			s.cfg.Log.Error("Batch aborted by persistence failure",
				"index", i,
				"equipment_id", spec.EquipmentID,
				"error", itemErr,
			)
			break
		}

		result.Errors = append(result.Errors, batchError(i, spec, appErr))
		result.FailedCount++
	}

	result.Success = result.CreatedCount > 0
	switch {
	case result.Aborted:
		result.State = model.BatchAborted
	case result.FailedCount == 0:
		result.State = model.BatchCompleted
	default:
		result.State = model.BatchPartiallyCompleted
	}

	s.events.BatchCompleted(ctx, result)
	s.cfg.Log.Info("Batch commit finished",
		"state", result.State,
		"created", result.CreatedCount,
		"failed", result.FailedCount,
		"aborted", result.Aborted,
	)

	return result, nil
}

// abortRemaining marks every spec from index on as unprocessed.
func (s *bookingService) abortRemaining(result *model.BatchResult, specs []*model.BookingSpec, from int, message string) {
	result.Aborted = true
	for j := from; j < len(specs); j++ {
		result.Errors = append(result.Errors, model.BatchError{
			Index:       j,
			EquipmentID: specs[j].EquipmentID,
			Code:        "ABORTED",
			Message:     message,
		})
	}
}

func batchError(index int, spec *model.BookingSpec, appErr *apperrors.AppError) model.BatchError {
	be := model.BatchError{
		Index:       index,
		EquipmentID: spec.EquipmentID,
		Code:        appErr.Code,
		Message:     appErr.Message,
		Retryable:   appErr.Retryable,
	}
	if conflicts, ok := appErr.Details["conflicts"].([]model.ConflictEntry); ok {
		be.Conflicts = conflicts
	}
	return be
}

// commitOne runs the full check-then-act sequence for one spec under the
// equipment's lock.
func (s *bookingService) commitOne(ctx context.Context, spec *model.BookingSpec) (*model.Booking, error) {
	if err := s.validator.ValidateSpec(spec); err != nil {
		return nil, apperrors.Validation("Booking spec validation failed", map[string]any{"error": err.Error()})
	}

	capacity, err := s.capacity.GetCapacity(ctx, spec.EquipmentID)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, spec.EquipmentID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.hydrate(ctx, spec.EquipmentID); err != nil {
		return nil, err
	}

	availability, err := s.detector.Check(capacity, spec.StartTime, spec.EndTime, spec.Quantity)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		return nil, apperrors.Conflict(
			fmt.Sprintf("Equipment %s is not available for the requested period", spec.EquipmentID),
			map[string]any{"conflicts": availability.Conflicts},
		)
	}

	// The write runs in a session so the repository skips its own
	// per-call timeout and the insert or merge commits atomically.
	var booking *model.Booking
	txErr := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		if target := s.aggregator.FindMergeTarget(capacity, *spec); target != nil {
			booking, err = s.mergeInto(sessCtx, target, spec)
		} else {
			booking, err = s.createNew(sessCtx, spec)
		}
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	return booking, nil
}

// acquire serializes access to one equipment item: the in-process lock
// table first, then the advisory lock document so commits from other
// service instances are excluded too. Both failures surface as a
// retryable lock timeout.
func (s *bookingService) acquire(ctx context.Context, equipmentID string) (func(), error) {
	release, err := s.locks.Acquire(ctx, equipmentID, s.cfg.LockWaitTimeout)
	if err != nil {
		return nil, err
	}

	if s.lockRepo == nil {
		return release, nil
	}

	lockID := fmt.Sprintf("reservation_lock_%s", equipmentID)
	_, err = s.lockRepo.Acquire(ctx, &model.ReservationLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.LockTTL),
	})
	if err != nil {
		release()
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.LockTimeout(equipmentID)
		}
		return nil, apperrors.Persistence("Failed to acquire reservation lock", err)
	}

	return func() {
		if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release reservation lock",
				"lock_id", lockID,
				"error", releaseErr,
			)
		}
		release()
	}, nil
}

// hydrate lazily loads the item's committed intervals. Called with the
// equipment lock held.
func (s *bookingService) hydrate(ctx context.Context, equipmentID string) error {
	if s.store.Hydrated(equipmentID) {
		return nil
	}

	active, err := s.repo.ListActive(ctx, equipmentID)
	if err != nil {
		return apperrors.Persistence("Failed to load committed bookings", err)
	}

	s.store.Load(equipmentID, active)
	return nil
}

// mergeInto folds the spec's quantity into an existing identical-range
// booking. The detector has already admitted the added quantity against
// the pool, which includes the target's current share.
func (s *bookingService) mergeInto(ctx context.Context, target *model.Booking, spec *model.BookingSpec) (*model.Booking, error) {
	newQuantity := target.Quantity + spec.Quantity

	updated, err := s.repo.UpdateQuantity(ctx, target.ID, newQuantity)
	if err != nil {
		// The write may have landed despite the error. Drop the cached
		// intervals so the next request re-hydrates from the repository.
		s.store.Invalidate(spec.EquipmentID)
		return nil, apperrors.Persistence("Failed to update booking quantity", err)
	}

	s.store.UpdateQuantity(spec.EquipmentID, target.ID, newQuantity)

	s.events.BookingMerged(ctx, updated, spec.Quantity)
	s.cfg.Log.Debug("Booking merged",
		"id", updated.ID,
		"equipment_id", updated.EquipmentID,
		"quantity", updated.Quantity,
		"added", spec.Quantity,
	)

	return updated, nil
}

func (s *bookingService) createNew(ctx context.Context, spec *model.BookingSpec) (*model.Booking, error) {
	booking := &model.Booking{
		EquipmentID: spec.EquipmentID,
		ClientID:    spec.ClientID,
		ProjectID:   spec.ProjectID,
		StartTime:   spec.StartTime,
		EndTime:     spec.EndTime,
		Quantity:    spec.Quantity,
		Status:      model.StatusPending,
		Notes:       spec.Notes,
		Metadata:    spec.Metadata,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.store.Invalidate(booking.EquipmentID)
		return nil, apperrors.Persistence("Failed to create booking", err)
	}

	s.store.Insert(booking)

	s.events.BookingCreated(ctx, booking)
	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"equipment_id", booking.EquipmentID,
		"start_time", booking.StartTime,
		"quantity", booking.Quantity,
	)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Search(ctx context.Context, filter repository.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByFilter(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings by filter", "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByFilter(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search bookings", "error", err)
			errFind = apperrors.Internal("Failed to search bookings", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// UpdateStatus applies one lifecycle transition and keeps the interval
// snapshot in step: a booking leaving the capacity-occupying statuses is
// dropped from accounting.
func (s *bookingService) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateStatusTransition(booking.Status, status); err != nil {
		return nil, apperrors.Conflict(
			fmt.Sprintf("Cannot transition booking from %q to %q", booking.Status, status),
			map[string]any{"error": err.Error()},
		)
	}

	release, err := s.locks.Acquire(ctx, booking.EquipmentID, s.cfg.LockWaitTimeout)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.store.Invalidate(booking.EquipmentID)
		return nil, apperrors.Persistence("Failed to update booking status", err)
	}

	s.store.SetStatus(booking.EquipmentID, id, status)
	booking.Status = status

	s.cfg.Log.Info("Booking status updated", "id", id, "status", status)
	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	release, err := s.locks.Acquire(ctx, booking.EquipmentID, s.cfg.LockWaitTimeout)
	if err != nil {
		return err
	}
	defer release()

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.store.Invalidate(booking.EquipmentID)
		return apperrors.Persistence("Failed to delete booking", err)
	}

	s.store.Remove(booking.EquipmentID, id)

	s.cfg.Log.Info("Booking deleted", "id", id)
	return nil
}
