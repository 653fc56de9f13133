package services

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"laundrybot/internal/core/domain/model/request"
	"laundrybot/internal/pkg/errs"
)

// TimeoutAction is what the supervisor does when a request dwells in a
// stage beyond its limit.
type TimeoutAction int

const (
	// ActionEscalate notifies the operator and leaves the request as is.
	// Escalation repeats on the escalation interval until someone acts.
	ActionEscalate TimeoutAction = iota + 1

	// ActionCancel cancels the request and force-releases its robot.
	// Reserved for stages where waiting longer cannot succeed.
	ActionCancel
)

// String implements fmt.Stringer.
func (a TimeoutAction) String() string {
	switch a {
	case ActionEscalate:
		return "escalate"
	case ActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

func actionFromString(name string) (TimeoutAction, error) {
	switch name {
	case "escalate", "":
		return ActionEscalate, nil
	case "cancel":
		return ActionCancel, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"action", fmt.Errorf("%q is not a timeout action", name))
	}
}

// StageRule is the supervision rule for one lifecycle stage.
type StageRule struct {
	Timeout time.Duration
	Action  TimeoutAction
}

// defaultReservationCeiling bounds how long a robot may hold a
// reservation without a heartbeat before the supervisor force-releases
// it. Long enough to ride out a reboot, short enough that a dead unit
// does not pin its request for the rest of the day.
const defaultReservationCeiling = 30 * time.Minute

// TimeoutPolicy maps lifecycle stages to dwell limits. Stages without a
// rule are unsupervised; a request may sit in Pending or PaymentPending
// forever unless the operator configures otherwise. The policy also
// carries the fleet-side reservation ceiling.
type TimeoutPolicy struct {
	rules              map[request.Status]StageRule
	reservationCeiling time.Duration
}

// DefaultTimeoutPolicy supervises the robot motion stages, where a stall
// means a stuck or lost robot. Everything defaults to escalation; cancel
// on timeout is strictly opt-in because it destroys customer state.
func DefaultTimeoutPolicy() TimeoutPolicy {
	return TimeoutPolicy{reservationCeiling: defaultReservationCeiling, rules: map[request.Status]StageRule{
		request.RobotEnRoute:               {Timeout: 15 * time.Minute, Action: ActionEscalate},
		request.ArrivedAtRoom:              {Timeout: 10 * time.Minute, Action: ActionEscalate},
		request.LaundryLoaded:              {Timeout: 15 * time.Minute, Action: ActionEscalate},
		request.FinishedWashingGoingToRoom: {Timeout: 15 * time.Minute, Action: ActionEscalate},
		request.FinishedWashingArrivedAtRoom: {
			Timeout: 10 * time.Minute, Action: ActionEscalate},
		request.FinishedWashingGoingToBase: {Timeout: 15 * time.Minute, Action: ActionEscalate},
	}}
}

type policyFile struct {
	ReservationCeiling string `yaml:"reservation_ceiling"`
	Stages             []struct {
		Status  string `yaml:"status"`
		Timeout string `yaml:"timeout"`
		Action  string `yaml:"action"`
	} `yaml:"stages"`
}

// LoadTimeoutPolicy reads a stage table from a YAML file:
//
//	reservation_ceiling: 45m
//	stages:
//	  - status: RobotEnRoute
//	    timeout: 15m
//	    action: escalate
//	  - status: ArrivedAtRoom
//	    timeout: 10m
//	    action: cancel
//
// The file replaces the default table entirely, so listing no stages
// disables stage supervision. An omitted reservation_ceiling keeps the
// default ceiling. An empty path keeps the defaults.
func LoadTimeoutPolicy(path string) (TimeoutPolicy, error) {
	if path == "" {
		return DefaultTimeoutPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return TimeoutPolicy{}, fmt.Errorf("read timeout policy: %w", err)
	}
	return ParseTimeoutPolicy(data)
}

// ParseTimeoutPolicy parses the YAML stage table.
func ParseTimeoutPolicy(data []byte) (TimeoutPolicy, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return TimeoutPolicy{}, fmt.Errorf("parse timeout policy: %w", err)
	}

	rules := make(map[request.Status]StageRule, len(file.Stages))
	for _, stage := range file.Stages {
		status, err := request.StatusFromString(stage.Status)
		if err != nil {
			return TimeoutPolicy{}, err
		}
		timeout, err := time.ParseDuration(stage.Timeout)
		if err != nil {
			return TimeoutPolicy{}, errs.NewValueIsInvalidErrorWithCause("timeout", err)
		}
		if timeout <= 0 {
			return TimeoutPolicy{}, errs.NewValueIsInvalidErrorWithCause(
				"timeout", fmt.Errorf("stage %s needs a positive timeout", stage.Status))
		}
		action, err := actionFromString(stage.Action)
		if err != nil {
			return TimeoutPolicy{}, err
		}
		rules[status] = StageRule{Timeout: timeout, Action: action}
	}

	ceiling := defaultReservationCeiling
	if file.ReservationCeiling != "" {
		parsed, err := time.ParseDuration(file.ReservationCeiling)
		if err != nil {
			return TimeoutPolicy{}, errs.NewValueIsInvalidErrorWithCause("reservation_ceiling", err)
		}
		if parsed <= 0 {
			return TimeoutPolicy{}, errs.NewValueIsInvalidErrorWithCause(
				"reservation_ceiling", fmt.Errorf("ceiling must be positive, got %s", parsed))
		}
		ceiling = parsed
	}

	return TimeoutPolicy{rules: rules, reservationCeiling: ceiling}, nil
}

// ReservationCeiling is the longest a robot may hold a reservation
// without heartbeating before the supervisor force-releases it.
func (p TimeoutPolicy) ReservationCeiling() time.Duration {
	if p.reservationCeiling <= 0 {
		return defaultReservationCeiling
	}
	return p.reservationCeiling
}

// RuleFor returns the supervision rule for a stage, if one exists.
func (p TimeoutPolicy) RuleFor(status request.Status) (StageRule, bool) {
	rule, ok := p.rules[status]
	return rule, ok
}

// IsOverdue reports whether a request that entered its current stage at
// statusChangedAt has exceeded the stage's dwell limit. Dwell is always
// recomputed from the persisted timestamp, so supervision survives
// restarts without carrying timers over.
func (p TimeoutPolicy) IsOverdue(status request.Status, statusChangedAt, now time.Time) (StageRule, bool) {
	rule, ok := p.rules[status]
	if !ok {
		return StageRule{}, false
	}
	return rule, now.Sub(statusChangedAt) >= rule.Timeout
}
