package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	equipmenterrors "gearpool/internal/equipment/errors"
	"gearpool/internal/equipment/validator"
	"gearpool/pkg/config"
	apperrors "gearpool/pkg/errors"
	"gearpool/pkg/logger"
	"gearpool/pkg/model"
)

type mockEquipmentRepo struct {
	mu    sync.Mutex
	items map[string]*model.Equipment
	seq   int
}

func newMockEquipmentRepo() *mockEquipmentRepo {
	return &mockEquipmentRepo{items: map[string]*model.Equipment{}}
}

func (m *mockEquipmentRepo) Create(ctx context.Context, equipment *model.Equipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if equipment.SerialNumber != "" {
		for _, existing := range m.items {
			if existing.SerialNumber == equipment.SerialNumber {
				return equipmenterrors.ErrDuplicateSerial
			}
		}
	}
	m.seq++
	equipment.ID = fmt.Sprintf("%024d", m.seq)
	cp := *equipment
	m.items[equipment.ID] = &cp
	return nil
}

func (m *mockEquipmentRepo) FindByID(ctx context.Context, id string) (*model.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, equipmenterrors.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *mockEquipmentRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Equipment
	for _, item := range m.items {
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockEquipmentRepo) FindByCategory(ctx context.Context, category string, limit int, offset int64) ([]*model.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Equipment
	for _, item := range m.items {
		if item.Category == category {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockEquipmentRepo) FindBySerial(ctx context.Context, serial string) (*model.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.SerialNumber == serial {
			cp := *item
			return &cp, nil
		}
	}
	return nil, equipmenterrors.ErrNotFound
}

func (m *mockEquipmentRepo) Update(ctx context.Context, id string, equipment *model.Equipment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return equipmenterrors.ErrNotFound
	}
	cp := *equipment
	cp.ID = id
	m.items[id] = &cp
	return nil
}

func (m *mockEquipmentRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return equipmenterrors.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockEquipmentRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

func (m *mockEquipmentRepo) CountByCategory(ctx context.Context, category string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, item := range m.items {
		if item.Category == category {
			n++
		}
	}
	return n, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.LevelError,
			Format:  logger.FormatText,
			Output:  io.Discard,
			Service: "equipment-test",
		}),
	}
}

func newService(t *testing.T) (*mockEquipmentRepo, EquipmentService) {
	t.Helper()
	cfg := testConfig(t)
	repo := newMockEquipmentRepo()
	svc := NewEquipmentService(repo, validator.NewEquipmentValidator(cfg.Log), nil, cfg)
	return repo, svc
}

func TestCreatePooledEquipment(t *testing.T) {
	_, svc := newService(t)

	equipment := &model.Equipment{
		Name:          "  Aputure   600d ",
		Category:      " Lighting ",
		TotalQuantity: 4,
	}
	require.NoError(t, svc.Create(context.Background(), equipment))

	assert.NotEmpty(t, equipment.ID)
	assert.Equal(t, "Aputure 600d", equipment.Name)
	assert.Equal(t, "lighting", equipment.Category)
	assert.Equal(t, 4, equipment.TotalQuantity)
}

func TestCreateUniqueEquipmentForcesQuantityOne(t *testing.T) {
	_, svc := newService(t)

	equipment := &model.Equipment{
		Name:          "Arri Alexa Mini",
		Category:      "camera",
		TotalQuantity: 3,
		Unique:        true,
		SerialNumber:  "amx-0042",
	}
	require.NoError(t, svc.Create(context.Background(), equipment))

	assert.Equal(t, 1, equipment.TotalQuantity)
	assert.Equal(t, "AMX-0042", equipment.SerialNumber)

	capacity := equipment.Capacity()
	assert.True(t, capacity.Unique)
	assert.Equal(t, 1, capacity.TotalQuantity)
}

func TestCreateUniqueRequiresSerial(t *testing.T) {
	_, svc := newService(t)

	err := svc.Create(context.Background(), &model.Equipment{
		Name:          "Arri Alexa Mini",
		Category:      "camera",
		TotalQuantity: 1,
		Unique:        true,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestCreateDuplicateSerialConflicts(t *testing.T) {
	_, svc := newService(t)

	first := &model.Equipment{
		Name: "Arri Alexa Mini", Category: "camera",
		TotalQuantity: 1, Unique: true, SerialNumber: "AMX-0042",
	}
	require.NoError(t, svc.Create(context.Background(), first))

	err := svc.Create(context.Background(), &model.Equipment{
		Name: "Arri Alexa Mini B", Category: "camera",
		TotalQuantity: 1, Unique: true, SerialNumber: "amx-0042",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestUpdateMergesPartialFields(t *testing.T) {
	repo, svc := newService(t)

	equipment := &model.Equipment{Name: "Manfrotto Tripod", Category: "grip", TotalQuantity: 8}
	require.NoError(t, svc.Create(context.Background(), equipment))

	newQty := 10
	updated, err := svc.Update(context.Background(), equipment.ID, &model.EquipmentUpdate{
		TotalQuantity: &newQty,
	})
	require.NoError(t, err)

	assert.Equal(t, "Manfrotto Tripod", updated.Name)
	assert.Equal(t, 10, updated.TotalQuantity)

	stored, err := repo.FindByID(context.Background(), equipment.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.TotalQuantity)
}

func TestGetByIDNotFound(t *testing.T) {
	_, svc := newService(t)

	_, err := svc.GetByID(context.Background(), fmt.Sprintf("%024d", 99))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestSearchByCategoryNormalizesInput(t *testing.T) {
	_, svc := newService(t)

	require.NoError(t, svc.Create(context.Background(), &model.Equipment{
		Name: "Aputure 600d", Category: "Lighting", TotalQuantity: 2,
	}))
	require.NoError(t, svc.Create(context.Background(), &model.Equipment{
		Name: "Manfrotto Tripod", Category: "grip", TotalQuantity: 5,
	}))

	items, total, err := svc.SearchByCategory(context.Background(), "  LIGHTING ", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Aputure 600d", items[0].Name)
}

func TestDeleteMissingEquipment(t *testing.T) {
	_, svc := newService(t)

	err := svc.Delete(context.Background(), fmt.Sprintf("%024d", 7))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
