package services

import (
	"errors"

	"laundrybot/internal/core/domain/model/robot"
)

// ErrNoRobotAvailable is returned when no reservable robot exists. The
// request stays dispatchable and the caller retries later; this is an
// expected outcome, not a failure.
var ErrNoRobotAvailable = errors.New("no robot available")

// RobotSelector is the domain service that picks which robot serves a
// request. Selection only chooses a candidate; the actual reservation is
// the registry's atomic step, so a selected robot can still be lost to a
// concurrent dispatch and the caller must be prepared to reselect.
type RobotSelector struct{}

// NewRobotSelector creates a RobotSelector.
func NewRobotSelector() RobotSelector {
	return RobotSelector{}
}

// Select returns the best reservable robot from the candidates.
//
// Among reservable robots the most recently idled one wins: it finished
// (or came online) last, so it sits at the head of the base dock queue
// and was most recently confirmed working. Ties keep the earlier
// candidate.
func (s RobotSelector) Select(robots []*robot.Robot) (*robot.Robot, error) {
	var best *robot.Robot

	for _, r := range robots {
		if err := r.Validate(); err != nil {
			return nil, err
		}

		if !r.CanBeReserved() {
			continue
		}

		if best == nil || r.IdleSince().After(best.IdleSince()) {
			best = r
		}
	}

	if best == nil {
		return nil, ErrNoRobotAvailable
	}

	return best, nil
}
