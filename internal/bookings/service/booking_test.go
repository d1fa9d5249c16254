package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearpool/internal/bookings/engine"
	bookingserrors "gearpool/internal/bookings/errors"
	"gearpool/internal/bookings/repository"
	"gearpool/internal/bookings/validator"
	"gearpool/pkg/config"
	apperrors "gearpool/pkg/errors"
	"gearpool/pkg/logger"
	"gearpool/pkg/model"

	mongotx "gearpool/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/mongo"
)

// --- Mocks ---

// mockBookingRepo is an in-memory BookingRepository with injectable
// failure hooks.
type mockBookingRepo struct {
	mu       sync.Mutex
	bookings []*model.Booking
	seq      int

	createErr         func(b *model.Booking) error
	updateQuantityErr func(id string) error
	listActiveErr     error
	txCalls           int
}

func (m *mockBookingRepo) Create(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		if err := m.createErr(b); err != nil {
			return err
		}
	}
	m.seq++
	b.ID = fmt.Sprintf("%024d", m.seq)
	stored := *b
	m.bookings = append(m.bookings, &stored)
	return nil
}

func (m *mockBookingRepo) FindByID(_ context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			found := *b
			return &found, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepo) FindAll(_ context.Context, _ int, _ int64) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Booking(nil), m.bookings...), nil
}

func (m *mockBookingRepo) ListActive(_ context.Context, equipmentID string) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listActiveErr != nil {
		return nil, m.listActiveErr
	}
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.EquipmentID == equipmentID && b.Status.CountsTowardCapacity() {
			found := *b
			out = append(out, &found)
		}
	}
	return out, nil
}

func (m *mockBookingRepo) UpdateQuantity(_ context.Context, id string, quantity int) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateQuantityErr != nil {
		if err := m.updateQuantityErr(id); err != nil {
			return nil, err
		}
	}
	for _, b := range m.bookings {
		if b.ID == id {
			b.Quantity = quantity
			found := *b
			return &found, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, id string, status model.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			b.Status = status
			return nil
		}
	}
	return bookingserrors.ErrNotFound
}

func (m *mockBookingRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bookings {
		if b.ID == id {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return nil
		}
	}
	return bookingserrors.ErrNotFound
}

func (m *mockBookingRepo) FindByFilter(_ context.Context, _ repository.BookingFilter, _ int, _ int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepo) CountByFilter(_ context.Context, _ repository.BookingFilter) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.bookings)), nil
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.mu.Lock()
	m.txCalls++
	m.mu.Unlock()
	return fn(mongo.NewSessionContext(ctx, nil))
}

func (m *mockBookingRepo) transactions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.txCalls
}

func (m *mockBookingRepo) all() []*model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Booking(nil), m.bookings...)
}

// mockLockRepo simulates the advisory lock collection.
type mockLockRepo struct {
	mu         sync.Mutex
	held       map[string]bool
	acquireErr error
}

func newMockLockRepo() *mockLockRepo {
	return &mockLockRepo{held: make(map[string]bool)}
}

func (m *mockLockRepo) Acquire(_ context.Context, lock *model.ReservationLock) (*model.ReservationLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.acquireErr != nil {
		return nil, m.acquireErr
	}
	if m.held[lock.ID] {
		return nil, bookingserrors.ErrLockHeld
	}
	m.held[lock.ID] = true
	return lock, nil
}

func (m *mockLockRepo) Release(_ context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, lockID)
	return nil
}

type mockCapacityProvider struct {
	capacities map[string]model.EquipmentCapacity
}

func (m *mockCapacityProvider) GetCapacity(_ context.Context, equipmentID string) (model.EquipmentCapacity, error) {
	c, ok := m.capacities[equipmentID]
	if !ok {
		return model.EquipmentCapacity{}, apperrors.NotFoundWithID("Equipment", equipmentID)
	}
	return c, nil
}

// --- Fixtures ---

func oid(n int) string {
	return fmt.Sprintf("%024d", n)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		LockWaitTimeout: 2 * time.Second,
		LockTTL:         5 * time.Second,
		MaxBatchSize:    100,
		MaxRentalDays:   365,
		Log: logger.New(logger.Config{
			Level:   logger.LevelError,
			Format:  logger.FormatText,
			Output:  io.Discard,
			Service: "bookings-test",
		}),
	}
}

type fixture struct {
	svc      BookingService
	repo     *mockBookingRepo
	lockRepo *mockLockRepo
	capacity *mockCapacityProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig(t)
	repo := &mockBookingRepo{}
	lockRepo := newMockLockRepo()
	capacity := &mockCapacityProvider{capacities: map[string]model.EquipmentCapacity{
		oid(1): {EquipmentID: oid(1), TotalQuantity: 5, Unique: false},
		oid(2): {EquipmentID: oid(2), TotalQuantity: 1, Unique: true},
		oid(3): {EquipmentID: oid(3), TotalQuantity: 2, Unique: false},
	}}
	svc := NewBookingService(
		repo,
		lockRepo,
		validator.NewBookingValidator(cfg.Log, cfg.MaxRentalDays),
		capacity,
		nil,
		cfg,
	)
	return &fixture{svc: svc, repo: repo, lockRepo: lockRepo, capacity: capacity}
}

func specFor(equipmentID string, startDay, endDay, qty int) *model.BookingSpec {
	return &model.BookingSpec{
		EquipmentID: equipmentID,
		ClientID:    oid(100),
		ProjectID:   oid(200),
		StartTime:   time.Date(2024, 1, startDay, 0, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2024, 1, endDay, 0, 0, 0, 0, time.UTC),
		Quantity:    qty,
	}
}

// --- CheckAvailability ---

func TestCheckAvailabilityValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckAvailability(context.Background(), &model.AvailabilityRequest{
		EquipmentID: oid(1),
		StartTime:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Quantity:    1,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestCheckAvailabilityReflectsCommittedBookings(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{specFor(oid(1), 1, 10, 3)})
	require.NoError(t, err)
	require.True(t, res.Success)

	avail, err := f.svc.CheckAvailability(context.Background(), &model.AvailabilityRequest{
		EquipmentID: oid(1),
		StartTime:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Quantity:    2,
	})
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, 2, avail.AvailableQuantity)

	avail, err = f.svc.CheckAvailability(context.Background(), &model.AvailabilityRequest{
		EquipmentID: oid(1),
		StartTime:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Quantity:    3,
	})
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, 2, avail.AvailableQuantity)
	require.Len(t, avail.Conflicts, 1)
	assert.Equal(t, 3, avail.Conflicts[0].RequiredQuantity)
}

func TestCheckBatchAvailabilityMixedResults(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{specFor(oid(2), 1, 5, 1)})
	require.NoError(t, err)
	require.True(t, res.Success)

	results, err := f.svc.CheckBatchAvailability(context.Background(), []*model.AvailabilityRequest{
		{EquipmentID: oid(2), StartTime: day(3), EndTime: day(7), Quantity: 1},
		{EquipmentID: oid(1), StartTime: day(3), EndTime: day(7), Quantity: 2},
		{EquipmentID: oid(99), StartTime: day(3), EndTime: day(7), Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.False(t, results[0].Available)
	assert.True(t, results[1].Available)
	assert.False(t, results[2].Available)
	require.Len(t, results[2].Conflicts, 1)
	assert.Contains(t, results[2].Conflicts[0].Reason, "not found")
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

// --- CommitBatch ---

func TestCommitBatchAllSucceed(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{
		specFor(oid(1), 1, 5, 2),
		specFor(oid(2), 1, 5, 1),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.False(t, result.Aborted)
	assert.Equal(t, model.BatchCompleted, result.State)
	assert.Equal(t, 2, result.CreatedCount)
	assert.Equal(t, 0, result.FailedCount)
	assert.Len(t, result.Bookings, 2)
	assert.Empty(t, result.Errors)

	for _, b := range result.Bookings {
		assert.Equal(t, model.StatusPending, b.Status)
		assert.NotEmpty(t, b.ID)
	}
}

func TestCommitBatchPartialFailure(t *testing.T) {
	f := newFixture(t)

	invalid := specFor(oid(1), 7, 5, 1) // start after end

	result, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{
		specFor(oid(1), 1, 5, 2),
		invalid,
		specFor(oid(2), 1, 5, 1),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, model.BatchPartiallyCompleted, result.State)
	assert.Equal(t, 2, result.CreatedCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, oid(1), result.Errors[0].EquipmentID)
	assert.Equal(t, apperrors.CodeValidation, result.Errors[0].Code)
}

func TestCommitBatchConflictIsNotFatal(t *testing.T) {
	f := newFixture(t)

	// Same unique item twice over overlapping ranges: the second spec
	// conflicts, the third still commits.
	result, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{
		specFor(oid(2), 1, 5, 1),
		specFor(oid(2), 3, 7, 1),
		specFor(oid(1), 1, 5, 1),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, model.BatchPartiallyCompleted, result.State)
	assert.Equal(t, 2, result.CreatedCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, apperrors.CodeConflict, result.Errors[0].Code)
	require.Len(t, result.Errors[0].Conflicts, 1)
	assert.Equal(t, 0, result.Errors[0].Conflicts[0].AvailableQuantity)
	assert.Equal(t, 1, result.Errors[0].Conflicts[0].RequiredQuantity)
}

func TestCommitUniqueRejectsMultiUnitSpec(t *testing.T) {
	f := newFixture(t)

	// oid(2) is unique; three units can never exist at once.
	result, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{
		specFor(oid(2), 1, 5, 3),
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.CreatedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, apperrors.CodeConflict, result.Errors[0].Code)
	require.Len(t, result.Errors[0].Conflicts, 1)
	assert.Equal(t, engine.ReasonOverCapacity, result.Errors[0].Conflicts[0].Reason)
	assert.Equal(t, 3, result.Errors[0].Conflicts[0].RequiredQuantity)
	assert.Empty(t, f.repo.all())

	// A single unit of the same item still commits.
	result, err = f.svc.CommitBatch(context.Background(), []*model.BookingSpec{
		specFor(oid(2), 1, 5, 1),
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, f.repo.all(), 1)
	assert.Equal(t, 1, f.repo.all()[0].Quantity)
}

func TestCommitWritesRunInTransaction(t *testing.T) {
	f := newFixture(t)

	// A create and a merge over the same range: one transaction each.
	result, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{
		specFor(oid(1), 1, 5, 1),
		specFor(oid(1), 1, 5, 2),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.CreatedCount)
	assert.Equal(t, 2, f.repo.transactions())
	require.Len(t, f.repo.all(), 1)
	assert.Equal(t, 3, f.repo.all()[0].Quantity)
}

func TestCommitBatchFatalAbort(t *testing.T) {
	f := newFixture(t)
	storageDown := errors.New("connection reset")

	// Fail the second create only; equipment ids differ so nothing
	// merges.
	calls := 0
	f.repo.createErr = func(_ *model.Booking) error {
		calls++
		if calls == 2 {
			return storageDown
		}
		return nil
	}

	result, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{
		specFor(oid(1), 1, 5, 1),
		specFor(oid(2), 1, 5, 1),
		specFor(oid(3), 1, 5, 1),
		specFor(oid(3), 6, 9, 1),
	})
	require.NoError(t, err)

	assert.True(t, result.Aborted)
	assert.Equal(t, model.BatchAborted, result.State)
	assert.Equal(t, 1, result.CreatedCount)
	assert.True(t, result.Success) // the first item is committed and durable
	assert.Len(t, result.Bookings, 1)

	require.Len(t, result.Errors, 3)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, apperrors.CodeUnavailable, result.Errors[0].Code)
	assert.Equal(t, "ABORTED", result.Errors[1].Code)
	assert.Equal(t, 2, result.Errors[1].Index)
	assert.Equal(t, "ABORTED", result.Errors[2].Code)
	assert.Equal(t, 3, result.Errors[2].Index)

	// Nothing after the fault was written.
	assert.Len(t, f.repo.all(), 1)
}

func TestCommitBatchEmptyAndOversized(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CommitBatch(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	big := make([]*model.BookingSpec, 101)
	for i := range big {
		big[i] = specFor(oid(1), 1, 2, 1)
	}
	_, err = f.svc.CommitBatch(context.Background(), big)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestCommitBatchCancelledContext(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.svc.CommitBatch(ctx, []*model.BookingSpec{
		specFor(oid(1), 1, 5, 1),
		specFor(oid(2), 1, 5, 1),
	})
	require.NoError(t, err)

	assert.True(t, result.Aborted)
	assert.Equal(t, model.BatchAborted, result.State)
	assert.Equal(t, 0, result.CreatedCount)
	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 2)
}

// --- Merge semantics ---

func TestMergeAcrossSeparateBatches(t *testing.T) {
	f := newFixture(t)

	// The same pooled item added three times, one unit each, identical
	// dates, through separate commits.
	for i := 0; i < 3; i++ {
		result, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{
			specFor(oid(1), 1, 10, 1),
		})
		require.NoError(t, err)
		require.True(t, result.Success)
		require.Equal(t, 1, result.CreatedCount)
	}

	stored := f.repo.all()
	require.Len(t, stored, 1)
	assert.Equal(t, 3, stored[0].Quantity)
}

func TestMergeStopsAtCapacity(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 5; i++ {
		result, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{
			specFor(oid(1), 1, 10, 1),
		})
		require.NoError(t, err)
		require.True(t, result.Success)
	}

	// Pool of 5 is now full; the sixth unit must conflict.
	result, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{
		specFor(oid(1), 1, 10, 1),
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 0, result.CreatedCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, apperrors.CodeConflict, result.Errors[0].Code)

	stored := f.repo.all()
	require.Len(t, stored, 1)
	assert.Equal(t, 5, stored[0].Quantity)
}

func TestDifferentRangesDoNotMerge(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{specFor(oid(1), 1, 10, 1)})
	require.NoError(t, err)
	_, err = f.svc.CommitBatch(context.Background(), []*model.BookingSpec{specFor(oid(1), 1, 9, 1)})
	require.NoError(t, err)

	assert.Len(t, f.repo.all(), 2)
}

// --- Locking ---

func TestHeldReservationLockIsRetryable(t *testing.T) {
	f := newFixture(t)

	// Another process holds the advisory lock for this item.
	_, err := f.lockRepo.Acquire(context.Background(), &model.ReservationLock{
		ID:        fmt.Sprintf("reservation_lock_%s", oid(1)),
		ExpiresAt: time.Now().Add(time.Minute),
	})
	require.NoError(t, err)

	result, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{
		specFor(oid(1), 1, 5, 1),
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.False(t, result.Aborted)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, apperrors.CodeLockTimeout, result.Errors[0].Code)
	assert.True(t, result.Errors[0].Retryable)
}

// Hammer one pooled item from concurrent batches and verify the
// capacity invariant holds. Run with -race.
func TestCapacityInvariantUnderConcurrentCommits(t *testing.T) {
	f := newFixture(t)

	const attempts = 10
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.CommitBatch(context.Background(), []*model.BookingSpec{
				specFor(oid(1), 1, 10, 1),
			})
		}()
	}
	wg.Wait()

	total := 0
	for _, b := range f.repo.all() {
		total += b.Quantity
	}
	assert.LessOrEqual(t, total, 5)
	assert.Greater(t, total, 0)
}

// --- Lifecycle ---

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{specFor(oid(1), 1, 5, 1)})
	require.NoError(t, err)
	id := result.Bookings[0].ID

	booking, err := f.svc.UpdateStatus(context.Background(), id, model.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, booking.Status)

	// pending is behind us now; going back is not allowed.
	_, err = f.svc.UpdateStatus(context.Background(), id, model.StatusPending)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestCancelledBookingFreesCapacity(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{specFor(oid(2), 1, 5, 1)})
	require.NoError(t, err)
	id := result.Bookings[0].ID

	_, err = f.svc.UpdateStatus(context.Background(), id, model.StatusCancelled)
	require.NoError(t, err)

	avail, err := f.svc.CheckAvailability(context.Background(), &model.AvailabilityRequest{
		EquipmentID: oid(2),
		StartTime:   day(1),
		EndTime:     day(5),
		Quantity:    1,
	})
	require.NoError(t, err)
	assert.True(t, avail.Available)
}

func TestDeleteRemovesFromCapacity(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.CommitBatch(context.Background(), []*model.BookingSpec{specFor(oid(2), 1, 5, 1)})
	require.NoError(t, err)
	id := result.Bookings[0].ID

	require.NoError(t, f.svc.Delete(context.Background(), id))

	avail, err := f.svc.CheckAvailability(context.Background(), &model.AvailabilityRequest{
		EquipmentID: oid(2),
		StartTime:   day(1),
		EndTime:     day(5),
		Quantity:    1,
	})
	require.NoError(t, err)
	assert.True(t, avail.Available)

	_, err = f.svc.GetByID(context.Background(), id)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
