package queries

import "time"

// GetFleetSummaryQuery lists the whole fleet for the operator console. It
// carries no parameters, so no constructor or guard is needed.
type GetFleetSummaryQuery struct{}

// RobotSummaryResponse is the operator's view of one unit.
type RobotSummaryResponse struct {
	Name            string
	Status          string
	Active          bool
	AcceptsRequests bool
	BoundRequestID  *int64
	CurrentTask     string
	IP              string
	LastSeen        time.Time
}

// GetFleetSummaryQueryResponse is the fleet roster with per-status counts.
type GetFleetSummaryQueryResponse struct {
	Robots    []RobotSummaryResponse
	Available int
	Busy      int
	Offline   int
}
