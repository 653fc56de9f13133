package commands

import (
	"errors"
	"fmt"

	"laundrybot/internal/pkg/guard"
)

var ErrReportStageCommandIsNotConstructed = errors.New(
	"ReportStageCommand must be created via NewReportStageCommand constructor",
)

// StageAction names the manually confirmed lifecycle steps: the ones that
// need a human or the wash station rather than a beacon.
type StageAction int

const (
	// ActionLoaded confirms the customer put laundry on the robot.
	ActionLoaded StageAction = iota + 1

	// ActionHandover confirms the clean laundry was handed back.
	ActionHandover

	// ActionRequestPayment sends the computed total to the customer.
	ActionRequestPayment

	// ActionFinishWashing marks the wash cycle done.
	ActionFinishWashing

	// ActionComplete closes a washing-branch request after base return.
	ActionComplete
)

func stageActionStrings() map[StageAction]string {
	return map[StageAction]string{
		ActionLoaded:         "loaded",
		ActionHandover:       "handover",
		ActionRequestPayment: "request_payment",
		ActionFinishWashing:  "finish_washing",
		ActionComplete:       "complete",
	}
}

// String implements fmt.Stringer.
func (a StageAction) String() string {
	if str, ok := stageActionStrings()[a]; ok {
		return str
	}
	return "unknown"
}

// StageActionFromString parses an action name from API input.
func StageActionFromString(name string) (StageAction, error) {
	for a, str := range stageActionStrings() {
		if str == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%q is not a stage action", name)
}

// ReportStageCommand confirms one manual lifecycle step for a request.
type ReportStageCommand struct { //nolint:recvcheck //using for validation
	requestID int64
	action    StageAction

	guard guard.ConstructorGuard
}

// NewReportStageCommand creates a validated stage report.
func NewReportStageCommand(requestID int64, action StageAction) (ReportStageCommand, error) {
	if requestID <= 0 {
		return ReportStageCommand{}, ErrRequestIDIsRequired
	}
	if _, ok := stageActionStrings()[action]; !ok {
		return ReportStageCommand{}, fmt.Errorf("%d is not a stage action", action)
	}

	return ReportStageCommand{
		requestID: requestID,
		action:    action,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportStageCommand) Validate() error {
	return c.guard.Validate(ErrReportStageCommandIsNotConstructed)
}

// RequestID returns the request the report is for.
func (c ReportStageCommand) RequestID() int64 { return c.requestID }

// Action returns the confirmed step.
func (c ReportStageCommand) Action() StageAction { return c.action }
