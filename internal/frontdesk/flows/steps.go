package flows

import (
	"encoding/json"
	"fmt"
	"time"

	"gearpool/internal/frontdesk/core"
	"gearpool/pkg/model"
	"gearpool/pkg/sanitizer"
)

// Keys the flows share through FlowContext.Process.
const (
	keyClient    = "client"
	keyProject   = "project"
	keySpecs     = "specs"
	keyItems     = "items"
	keyStart     = "start_time"
	keyEnd       = "end_time"
	keyBatchResp = "batch_result"
)

// orderItem is one requested line in a rental order.
type orderItem struct {
	EquipmentID string `json:"equipment_id"`
	Quantity    int    `json:"quantity"`
}

// ResolveClient finds the renting client by phone, creating it on the fly
// when the caller supplied a name for an unknown number.
func ResolveClient(ctx *core.FlowContext) error {
	phone := sanitizer.NormalizePhone(ctx.ExtractString("client_phone"))
	if phone == "" {
		return fmt.Errorf("client_phone is missing or not a valid phone number")
	}

	resp, err := ctx.Client.ClientsClient.GetByPhone(ctx.Ctx, phone)
	if err != nil {
		return err
	}
	if resp.StatusCode < 300 {
		cl, err := ctx.Client.ClientsClient.DecodeClient(resp)
		if err != nil {
			return err
		}
		ctx.Process[keyClient] = cl
		return nil
	}
	if resp.StatusCode != 404 {
		return fmt.Errorf("client lookup failed: status=%d", resp.StatusCode)
	}

	name := ctx.ExtractString("client_name")
	if name == "" {
		return fmt.Errorf("no client registered for %s and no client_name given", phone)
	}

	created, err := ctx.Client.ClientsClient.Create(ctx.Ctx, map[string]any{
		"name":  name,
		"phone": phone,
	})
	if err != nil {
		return err
	}
	if created.StatusCode >= 300 {
		return fmt.Errorf("client registration failed: status=%d", created.StatusCode)
	}
	cl, err := ctx.Client.ClientsClient.DecodeClient(created)
	if err != nil {
		return err
	}
	ctx.Process[keyClient] = cl
	return nil
}

// ResolveProject loads the referenced project, or creates one spanning the
// rental window when only a project_name is given.
func ResolveProject(ctx *core.FlowContext) error {
	cl := ctx.Process[keyClient].(*model.Client)

	if projectID := ctx.ExtractString("project_id"); projectID != "" {
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
		if project.ClientID != cl.ID {
			return fmt.Errorf("project %s does not belong to client %s", projectID, cl.ID)
		}
		ctx.Process[keyProject] = project
		return nil
	}

	name := ctx.ExtractString("project_name")
	if name == "" {
		// Bookings without a project are allowed.
		return nil
	}

	start := ctx.Process[keyStart].(time.Time)
	end := ctx.Process[keyEnd].(time.Time)
	created, err := ctx.Client.ProjectsClient.Create(ctx.Ctx, map[string]any{
		"client_id":  cl.ID,
		"name":       name,
		"start_date": start.Format(time.RFC3339),
		"end_date":   end.Format(time.RFC3339),
		"status":     string(model.ProjectPlanned),
	})
	if err != nil {
		return err
	}
	if created.StatusCode >= 300 {
		return fmt.Errorf("project creation failed: status=%d", created.StatusCode)
	}
	project, err := ctx.Client.ProjectsClient.DecodeProject(created)
	if err != nil {
		return err
	}
	ctx.Process[keyProject] = project
	return nil
}

// ParseRentalWindow validates the shared start/end of the order.
func ParseRentalWindow(ctx *core.FlowContext) error {
	start, err := ctx.ExtractTime("start_time")
	if err != nil {
		return err
	}
	end, err := ctx.ExtractTime("end_time")
	if err != nil {
		return err
	}
	if !end.After(start) {
		return fmt.Errorf("end_time must be after start_time")
	}
	ctx.Process[keyStart] = start
	ctx.Process[keyEnd] = end
	return nil
}

// ParseOrderItems decodes the requested equipment lines.
func ParseOrderItems(ctx *core.FlowContext) error {
	raw, ok := ctx.Input["items"]
	if !ok {
		return core.MissingParamErr("items")
	}

	// Input arrives as generic JSON; round-trip into the typed shape.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("items are not valid JSON: %w", err)
	}
	var items []orderItem
	if err := json.Unmarshal(encoded, &items); err != nil {
		return fmt.Errorf("items must be a list of {equipment_id, quantity}: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("items cannot be empty")
	}
	for i, item := range items {
		if item.EquipmentID == "" {
			return fmt.Errorf("items[%d] is missing equipment_id", i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("items[%d] quantity must be at least 1", i)
		}
	}

	ctx.Process[keyItems] = items
	return nil
}

// BuildBookingSpecs turns order lines into booking specs bound to the
// resolved client and project.
func BuildBookingSpecs(ctx *core.FlowContext) error {
	cl := ctx.Process[keyClient].(*model.Client)
	items := ctx.Process[keyItems].([]orderItem)
	start := ctx.Process[keyStart].(time.Time)
	end := ctx.Process[keyEnd].(time.Time)

	projectID := ""
	if p, ok := ctx.Process[keyProject]; ok {
		projectID = p.(*model.Project).ID
	}

	specs := make([]*model.BookingSpec, 0, len(items))
	for _, item := range items {
		specs = append(specs, &model.BookingSpec{
			EquipmentID: item.EquipmentID,
			ClientID:    cl.ID,
			ProjectID:   projectID,
			StartTime:   start,
			EndTime:     end,
			Quantity:    item.Quantity,
			Notes:       ctx.ExtractString("notes"),
		})
	}
	ctx.Process[keySpecs] = specs
	return nil
}

// CommitOrder submits the specs as one batch and surfaces the full result,
// including per-line failures, in the flow output.
func CommitOrder(ctx *core.FlowContext) error {
	specs := ctx.Process[keySpecs].([]*model.BookingSpec)

	resp, err := ctx.Client.BookingsClient.CommitBatch(ctx.Ctx, specs, ctx.ExtractString("idempotency_key"))
	if err != nil {
		return err
	}
	result, err := ctx.Client.BookingsClient.DecodeBatchResult(resp)
	if err != nil {
		return err
	}

	ctx.Process[keyBatchResp] = result
	ctx.Output["result"] = result
	if cl, ok := ctx.Process[keyClient].(*model.Client); ok {
		ctx.Output["client_id"] = cl.ID
	}
	if p, ok := ctx.Process[keyProject]; ok {
		ctx.Output["project_id"] = p.(*model.Project).ID
	}
	return nil
}
