// Package guard implements the constructor-guard pattern used by domain
// value objects and commands to detect zero-value instances that bypassed
// their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes
// a nil validation error, so validation always fails with a meaningful
// message.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard distinguishes properly constructed objects from zero
// values. Embed one in a struct and set it via NewConstructorGuard inside
// the constructor; Validate then rejects any instance that was created by
// plain struct literal.
//
// Example:
//
//	type Tariff struct {
//	    perKg kernel.Money
//	    guard guard.ConstructorGuard
//	}
//
//	func NewTariff(perKg kernel.Money) Tariff {
//	    return Tariff{perKg: perKg, guard: guard.NewConstructorGuard()}
//	}
//
//	func (t Tariff) Validate() error {
//	    return t.guard.Validate(ErrTariffIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks an object as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for constructed objects. For zero values it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
