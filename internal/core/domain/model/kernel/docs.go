// Package kernel provides the core domain primitives shared across the
// laundry dispatch model.
//
// The package includes:
//   - UUID: a value object for ledger entry and domain event identifiers
//   - Room: a value object binding a room name to its installed beacon
//   - Money: an integer-cents amount used for tariffs, charges, and refunds
//
// These primitives enforce their own invariants, are immutable, and are safe
// for concurrent use.
package kernel
