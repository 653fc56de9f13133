package queries

// GetBeaconsQuery lists the beacon catalog for the operator console. It
// carries no parameters, so no constructor or guard is needed.
type GetBeaconsQuery struct{}

// GetBeaconsQueryResponse is one catalog entry.
type GetBeaconsQueryResponse struct {
	Mac           string
	RoomName      string
	RssiThreshold int
	IsBase        bool
}
