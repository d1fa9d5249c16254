package flows

import (
	"fmt"
	"sync"

	"gearpool/internal/frontdesk/core"
	"gearpool/pkg/model"
)

const (
	keyBookings = "bookings"

	maxBookingsPerProjectFetch = 200
	maxConcurrentLookups       = 8
)

func LoadProject(ctx *core.FlowContext) error {
	projectID := ctx.ExtractString("project_id")
	if projectID == "" {
		return core.MissingParamErr("project_id")
	}

	resp, err := ctx.Client.ProjectsClient.GetByID(ctx.Ctx, projectID)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("project %s lookup failed: status=%d", projectID, resp.StatusCode)
	}
	project, err := ctx.Client.ProjectsClient.DecodeProject(resp)
	if err != nil {
		return err
	}

	ctx.Process[keyProject] = project
	ctx.Output["project"] = project
	return nil
}

func LoadProjectBookings(ctx *core.FlowContext) error {
	project := ctx.Process[keyProject].(*model.Project)

	resp, err := ctx.Client.BookingsClient.Search(ctx.Ctx, "", project.ID, "", "", maxBookingsPerProjectFetch, 0)
	if err != nil {
		return err
	}
	bookings, meta, err := ctx.Client.BookingsClient.DecodeBookings(resp)
	if err != nil {
		return err
	}

	ctx.Process[keyBookings] = bookings
	ctx.Output["bookings"] = bookings
	ctx.Output["total_bookings"] = meta.TotalCount
	return nil
}

// ResolveEquipmentNames decorates the overview with equipment names, fetching
// each distinct id once with bounded concurrency. Name lookups are best
// effort: a failed lookup leaves the id unlabeled rather than failing the
// whole overview.
func ResolveEquipmentNames(ctx *core.FlowContext) error {
	bookings := ctx.Process[keyBookings].([]*model.Booking)

	ids := map[string]struct{}{}
	for _, booking := range bookings {
		ids[booking.EquipmentID] = struct{}{}
	}

	var mu sync.Mutex
	names := make(map[string]string, len(ids))
	sem := make(chan struct{}, maxConcurrentLookups)
	var wg sync.WaitGroup

	for id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(equipmentID string) {
			defer wg.Done()
			defer func() { <-sem }()

			resp, err := ctx.Client.EquipmentClient.GetByID(ctx.Ctx, equipmentID)
			if err != nil || resp.StatusCode >= 300 {
				ctx.Log.Warn("equipment name lookup failed", "equipment_id", equipmentID, "error", err)
				return
			}
			equipment, err := ctx.Client.EquipmentClient.DecodeEquipment(resp)
			if err != nil {
				ctx.Log.Warn("equipment decode failed", "equipment_id", equipmentID, "error", err)
				return
			}

			mu.Lock()
			names[equipmentID] = equipment.Name
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	ctx.Output["equipment_names"] = names
	return nil
}
