package flows

import (
	"time"

	"gearpool/internal/frontdesk/core"
	"gearpool/pkg/model"
)

// CheckGearAvailability runs an advisory availability check for every order
// line. The answer can go stale the moment it is produced; the commit flow
// re-checks under lock.
func CheckGearAvailability(ctx *core.FlowContext) error {
	items := ctx.Process[keyItems].([]orderItem)
	start := ctx.Process[keyStart].(time.Time)
	end := ctx.Process[keyEnd].(time.Time)

	reqs := make([]*model.AvailabilityRequest, 0, len(items))
	for _, item := range items {
		reqs = append(reqs, &model.AvailabilityRequest{
			EquipmentID: item.EquipmentID,
			StartTime:   start,
			EndTime:     end,
			Quantity:    item.Quantity,
		})
	}

	resp, err := ctx.Client.BookingsClient.CheckBatchAvailability(ctx.Ctx, reqs)
	if err != nil {
		return err
	}
	results, err := ctx.Client.BookingsClient.DecodeBatchAvailability(resp)
	if err != nil {
		return err
	}

	allAvailable := true
	for _, result := range results {
		if !result.Available {
			allAvailable = false
			break
		}
	}

	ctx.Output["all_available"] = allAvailable
	ctx.Output["results"] = results
	return nil
}
