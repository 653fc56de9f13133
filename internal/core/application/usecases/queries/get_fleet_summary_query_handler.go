package queries

import (
	"context"
	"sort"

	"laundrybot/internal/core/domain/model/robot"
	"laundrybot/internal/core/registry"
)

// GetFleetSummaryQueryHandler reads the fleet roster from the in-memory
// registry. The registry is the authority for live robot state, so this
// is the one query that does not go to the database.
type GetFleetSummaryQueryHandler struct {
	fleet *registry.Registry
}

// NewGetFleetSummaryQueryHandler creates a handler for fleet summary
// queries.
func NewGetFleetSummaryQueryHandler(fleet *registry.Registry) GetFleetSummaryQueryHandler {
	return GetFleetSummaryQueryHandler{fleet: fleet}
}

// Handle returns every registered robot, sorted by name, with per-status
// counts for the console header.
func (h GetFleetSummaryQueryHandler) Handle(_ context.Context, _ GetFleetSummaryQuery) (GetFleetSummaryQueryResponse, error) {
	robots := h.fleet.List()
	sort.Slice(robots, func(i, j int) bool {
		return robots[i].Name() < robots[j].Name()
	})

	resp := GetFleetSummaryQueryResponse{
		Robots: make([]RobotSummaryResponse, 0, len(robots)),
	}
	for _, r := range robots {
		resp.Robots = append(resp.Robots, RobotSummaryResponse{
			Name:            r.Name(),
			Status:          r.Status().String(),
			Active:          r.IsActive(),
			AcceptsRequests: r.AcceptsRequests(),
			BoundRequestID:  r.BoundRequestID(),
			CurrentTask:     r.CurrentTask(),
			IP:              r.IP(),
			LastSeen:        r.LastSeen(),
		})

		switch r.Status() {
		case robot.StatusAvailable:
			resp.Available++
		case robot.StatusDispatching, robot.StatusBusy:
			resp.Busy++
		case robot.StatusOffline:
			resp.Offline++
		}
	}

	return resp, nil
}
