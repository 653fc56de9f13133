// Package commands contains the write operations of the orchestrator.
// Every command follows the same shape: a validated command object, a
// handler owning the transaction, and per-request serialization through
// the keyed locker so concurrent events for one request cannot interleave.
package commands

import (
	"context"

	"laundrybot/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. Handlers depend on the narrowest interface that covers the
// repositories they touch.
type (
	// TxManager handles the database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// RequestRepoFactory provides the request repository within a transaction.
	RequestRepoFactory interface {
		RequestRepository() ports.RequestRepository
	}

	// BeaconRepoFactory provides the beacon repository within a transaction.
	BeaconRepoFactory interface {
		BeaconRepository() ports.BeaconRepository
	}

	// AdjustmentRepoFactory provides the ledger repository within a transaction.
	AdjustmentRepoFactory interface {
		AdjustmentRepository() ports.AdjustmentRepository
	}

	// RequestUoW manages transactions for request-only operations.
	RequestUoW interface {
		TxManager
		RequestRepoFactory
	}

	// RequestUoWFactory creates request unit of work instances.
	RequestUoWFactory interface {
		Create() RequestUoW
	}

	// SubmitUoW manages transactions spanning requests and the beacon
	// catalog, used at submission to match the room's beacon.
	SubmitUoW interface {
		TxManager
		RequestRepoFactory
		BeaconRepoFactory
	}

	// SubmitUoWFactory creates submission unit of work instances.
	SubmitUoWFactory interface {
		Create() SubmitUoW
	}

	// LedgerUoW manages transactions spanning requests and the money
	// ledger, used by adjustments and refunds.
	LedgerUoW interface {
		TxManager
		RequestRepoFactory
		AdjustmentRepoFactory
	}

	// LedgerUoWFactory creates ledger unit of work instances.
	LedgerUoWFactory interface {
		Create() LedgerUoW
	}
)
