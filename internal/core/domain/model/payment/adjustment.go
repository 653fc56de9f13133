package payment

import (
	"errors"
	"fmt"
	"time"

	"laundrybot/internal/core/domain/model/kernel"
	"laundrybot/internal/pkg/errs"
	"laundrybot/internal/pkg/guard"
)

var (
	// ErrAdjustmentIsNotConstructed is returned when using an improperly
	// initialized Adjustment.
	ErrAdjustmentIsNotConstructed = errors.New(
		"Adjustment must be created via NewAdjustment constructor")

	// ErrReasonIsRequired is returned when recording an adjustment without
	// a reason; the ledger is the audit trail and unexplained entries are
	// useless.
	ErrReasonIsRequired = errs.NewValueIsRequiredError("reason")

	// ErrAmountIsInvalid is returned for zero amounts, or negative amounts
	// on kinds with a fixed sign.
	ErrAmountIsInvalid = errs.NewValueIsInvalidError("adjustment amount")

	// ErrRequestIsRequired is returned when the entry references no request.
	ErrRequestIsRequired = errs.NewValueIsRequiredError("request id")
)

// Kind classifies a ledger entry. The kind fixes the sign of the entry's
// effect on the request total, except Correction which carries its own
// sign.
type Kind int

const (
	// KindUnknown is the invalid zero value.
	KindUnknown Kind = iota

	// KindSurcharge increases the total (oversized load, special detergent).
	KindSurcharge

	// KindDiscount decreases the total (promo, service recovery).
	KindDiscount

	// KindRefund returns money after payment, typically for a cancellation
	// past the invoicing point.
	KindRefund

	// KindCorrection fixes an operator mistake; the amount is signed.
	KindCorrection
)

func kindStrings() map[Kind]string {
	return map[Kind]string{
		KindSurcharge:  "Surcharge",
		KindDiscount:   "Discount",
		KindRefund:     "Refund",
		KindCorrection: "Correction",
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if str, ok := kindStrings()[k]; ok {
		return str
	}
	return "Unknown"
}

// KindFromString parses a kind name from API input.
func KindFromString(name string) (Kind, error) {
	for k, str := range kindStrings() {
		if str == name {
			return k, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidErrorWithCause(
		"kind", fmt.Errorf("%q is not a known adjustment kind", name))
}

// Validate rejects KindUnknown and out-of-range values.
func (k Kind) Validate() error {
	if _, ok := kindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"kind", fmt.Errorf("%d is not a valid adjustment kind", k))
	}
	return nil
}

// Adjustment is one immutable entry in a request's money ledger. Entries
// are append only: a wrong entry is never edited or deleted, it is
// compensated by a Correction. The request's effective total is always
// recomputed by folding the entries over the base charge, so the ledger
// and the total cannot drift apart.
type Adjustment struct {
	id        kernel.UUID
	requestID int64
	kind      Kind

	// amountCents is the signed effect on the total. Surcharges are
	// positive, discounts and refunds negative, corrections either.
	amountCents int64

	reason    string
	actor     string
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewAdjustment records a ledger entry. The amount is given in positive
// cents for the fixed-sign kinds; for KindCorrection it is signed. Zero
// amounts are rejected for every kind.
func NewAdjustment(requestID int64, kind Kind, amountCents int64, reason, actor string, now time.Time) (*Adjustment, error) {
	if requestID <= 0 {
		return nil, ErrRequestIsRequired
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, ErrReasonIsRequired
	}
	if amountCents == 0 {
		return nil, ErrAmountIsInvalid
	}

	signed := amountCents
	switch kind {
	case KindSurcharge:
		if amountCents < 0 {
			return nil, ErrAmountIsInvalid
		}
	case KindDiscount, KindRefund:
		if amountCents < 0 {
			return nil, ErrAmountIsInvalid
		}
		signed = -amountCents
	case KindCorrection:
		// signed as given
	}

	return &Adjustment{
		id:          kernel.NewUUID(),
		requestID:   requestID,
		kind:        kind,
		amountCents: signed,
		reason:      reason,
		actor:       actor,
		createdAt:   now,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Restore reconstructs an entry from persistent storage. The stored amount
// is already signed.
func Restore(id kernel.UUID, requestID int64, kind Kind, signedCents int64, reason, actor string, createdAt time.Time) (*Adjustment, error) {
	if err := errors.Join(id.Validate(), kind.Validate()); err != nil {
		return nil, err
	}
	if requestID <= 0 {
		return nil, ErrRequestIsRequired
	}

	return &Adjustment{
		id:          id,
		requestID:   requestID,
		kind:        kind,
		amountCents: signedCents,
		reason:      reason,
		actor:       actor,
		createdAt:   createdAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the entry was created through a constructor.
func (a *Adjustment) Validate() error {
	if a == nil {
		return ErrAdjustmentIsNotConstructed
	}
	return a.guard.Validate(ErrAdjustmentIsNotConstructed)
}

// ID returns the entry's identifier.
func (a *Adjustment) ID() kernel.UUID { return a.id }

// RequestID returns the request the entry belongs to.
func (a *Adjustment) RequestID() int64 { return a.requestID }

// Kind returns the entry classification.
func (a *Adjustment) Kind() Kind { return a.kind }

// SignedCents returns the entry's signed effect on the total.
func (a *Adjustment) SignedCents() int64 { return a.amountCents }

// Reason returns the mandatory explanation.
func (a *Adjustment) Reason() string { return a.reason }

// Actor returns who recorded the entry.
func (a *Adjustment) Actor() string { return a.actor }

// CreatedAt returns when the entry was recorded.
func (a *Adjustment) CreatedAt() time.Time { return a.createdAt }

// IsEqual compares entries by id.
func (a *Adjustment) IsEqual(other *Adjustment) bool {
	if other == nil {
		return false
	}
	return a.id.IsEqual(other.id)
}

// FoldTotal computes the effective total by applying every entry to the
// base charge in recording order. The result floors at zero; the ledger
// may over-refund on paper but the customer is never shown a negative
// bill.
func FoldTotal(base kernel.Money, entries []*Adjustment) kernel.Money {
	cents := base.Cents()
	for _, e := range entries {
		cents += e.amountCents
	}
	if cents < 0 {
		cents = 0
	}
	total, _ := kernel.NewMoneyFromCents(cents)
	return total
}
