package request

import (
	"fmt"

	"laundrybot/internal/pkg/errs"
)

// Flow classifies what the customer asked for. It decides whether the
// request takes the washing branch after payment.
type Flow int

const (
	// FlowUnknown is the invalid zero value.
	FlowUnknown Flow = iota

	// PickupOnly collects laundry and ends after payment; the customer
	// retrieves the clean load at the base themselves.
	PickupOnly

	// DeliveryOnly brings an already-washed load to the customer's room in
	// a single robot trip.
	DeliveryOnly

	// PickupAndDelivery collects, washes, and delivers back; the only flow
	// that enters the washing branch.
	PickupAndDelivery
)

func flowStrings() map[Flow]string {
	return map[Flow]string{
		PickupOnly:        "PickupOnly",
		DeliveryOnly:      "DeliveryOnly",
		PickupAndDelivery: "PickupAndDelivery",
	}
}

// String implements fmt.Stringer.
func (f Flow) String() string {
	if str, ok := flowStrings()[f]; ok {
		return str
	}
	return "Unknown"
}

// FlowFromString parses a flow name from API input.
func FlowFromString(name string) (Flow, error) {
	for f, str := range flowStrings() {
		if str == name {
			return f, nil
		}
	}
	return FlowUnknown, errs.NewValueIsInvalidErrorWithCause(
		"flow", fmt.Errorf("%q is not a known request flow", name))
}

// Validate rejects FlowUnknown and out-of-range values.
func (f Flow) Validate() error {
	if _, ok := flowStrings()[f]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"flow", fmt.Errorf("%d is not a valid request flow", f))
	}
	return nil
}

// TakesWashingBranch reports whether payment success continues into the
// washing chain instead of completing the request.
func (f Flow) TakesWashingBranch() bool {
	return f == PickupAndDelivery
}
