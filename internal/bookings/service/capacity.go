package service

import (
	"context"

	"gearpool/pkg/client"
	apperrors "gearpool/pkg/errors"
	"gearpool/pkg/model"
)

// httpCapacityProvider resolves capacity through the equipment service.
// Lookup failures are per-item errors, never fatal to a batch: an
// unreachable catalog fails the spec that needed it, not the run.
type httpCapacityProvider struct {
	equipment *client.EquipmentClient
}

func NewHTTPCapacityProvider(equipment *client.EquipmentClient) CapacityProvider {
	return &httpCapacityProvider{equipment: equipment}
}

func (p *httpCapacityProvider) GetCapacity(ctx context.Context, equipmentID string) (model.EquipmentCapacity, error) {
	resp, err := p.equipment.GetByID(ctx, equipmentID)
	if err != nil {
		return model.EquipmentCapacity{}, apperrors.Internal("Failed to reach equipment service", err)
	}

	if resp.StatusCode == 404 {
		return model.EquipmentCapacity{}, apperrors.NotFoundWithID("Equipment", equipmentID)
	}
	if resp.StatusCode >= 400 {
		return model.EquipmentCapacity{}, apperrors.Internal("Equipment lookup failed: "+client.GetErrorMessage(resp), nil)
	}

	equipment, err := p.equipment.DecodeEquipment(resp)
	if err != nil {
		return model.EquipmentCapacity{}, apperrors.Internal("Failed to decode equipment", err)
	}

	return equipment.Capacity(), nil
}
