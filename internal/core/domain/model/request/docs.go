// Package request holds the LaundryRequest aggregate and its lifecycle
// state machine.
//
// The machine is the single source of truth for which events are valid in
// which status. Handlers never compare statuses themselves; they raise an
// event through the aggregate and branch on the error:
//
//   - nil: the transition happened, persist and notify.
//   - ErrAlreadyInState: a duplicated delivery (beacon replay, retried
//     admin click), acknowledge without side effects.
//   - ErrInvalidTransition: a genuinely out-of-order event, reject it.
//
// PickupOnly and DeliveryOnly requests finish at payment; PickupAndDelivery
// continues through the washing branch and completes once the robot is back
// at base and the customer confirmed pickup.
package request
