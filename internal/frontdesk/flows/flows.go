package flows

import "gearpool/internal/frontdesk/core"

const (
	FlowCreateRentalOrder = "create_rental_order"
	FlowCheckAvailability = "check_gear_availability"
	FlowProjectOverview   = "project_overview"
)

// All returns every flow the front desk exposes.
func All() []core.Flow {
	return []core.Flow{
		{
			Name: FlowCreateRentalOrder,
			Steps: []core.Step{
				core.NewStep("parse_rental_window", ParseRentalWindow),
				core.NewStep("parse_order_items", ParseOrderItems),
				core.NewStep("resolve_client", ResolveClient),
				core.NewStep("resolve_project", ResolveProject),
				core.NewStep("build_booking_specs", BuildBookingSpecs),
				core.NewStep("commit_order", CommitOrder),
			},
		},
		{
			Name: FlowCheckAvailability,
			Steps: []core.Step{
				core.NewStep("parse_rental_window", ParseRentalWindow),
				core.NewStep("parse_order_items", ParseOrderItems),
				core.NewStep("check_availability", CheckGearAvailability),
			},
		},
		{
			Name: FlowProjectOverview,
			Steps: []core.Step{
				core.NewStep("load_project", LoadProject),
				core.NewStep("load_project_bookings", LoadProjectBookings),
				core.NewStep("resolve_equipment_names", ResolveEquipmentNames),
			},
		},
	}
}
