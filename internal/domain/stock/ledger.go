package stock

import (
	"context"

	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// Scope identifies one logical ledger: the central warehouse or one
// college's ledger for a specific catalog. The central ledger is stored on
// the product record itself while college ledgers live in per-college
// entries; the Ledger contract hides that difference.
type Scope struct {
	CollegeID uuid.UUID
	Catalog   catalog.CatalogKind
}

// Central returns the scope of the central warehouse ledger
func Central(kind catalog.CatalogKind) Scope {
	return Scope{CollegeID: uuid.Nil, Catalog: kind}
}

// AtCollege returns the scope of a college ledger
func AtCollege(collegeID uuid.UUID, kind catalog.CatalogKind) Scope {
	return Scope{CollegeID: collegeID, Catalog: kind}
}

// IsCentral reports whether the scope addresses the central ledger
func (s Scope) IsCentral() bool {
	return s.CollegeID == uuid.Nil
}

// DeltaSet accumulates per-product quantity deltas for a single batch
// commit. Negative deltas deduct, positive deltas restore.
type DeltaSet map[uuid.UUID]int64

// Add accumulates a delta for a product
func (d DeltaSet) Add(productID uuid.UUID, delta int64) {
	d[productID] += delta
}

// HasDeltas reports whether at least one non-zero delta is present
func (d DeltaSet) HasDeltas() bool {
	for _, delta := range d {
		if delta != 0 {
			return true
		}
	}
	return false
}

// Ledger is the logical contract over all stock ledgers. Absent entries
// read as zero. ApplyDelta clamps the resulting quantity at zero and
// returns the delta actually applied so callers can detect drift.
type Ledger interface {
	// Get returns the quantity of a product in the scoped ledger (0 if absent)
	Get(ctx context.Context, scope Scope, productID uuid.UUID) (int64, error)

	// GetMany returns quantities for a batch of products in one read
	GetMany(ctx context.Context, scope Scope, productIDs []uuid.UUID) (map[uuid.UUID]int64, error)

	// Snapshot returns every non-zero cell of the scoped ledger
	Snapshot(ctx context.Context, scope Scope) (map[uuid.UUID]int64, error)

	// ApplyDelta applies a single delta, clamping the result at zero.
	// The returned value is the delta that was actually applied.
	ApplyDelta(ctx context.Context, scope Scope, productID uuid.UUID, delta int64) (int64, error)

	// ApplyBatch applies a set of deltas as a single persisted write and
	// returns the per-product deltas actually applied after clamping.
	ApplyBatch(ctx context.Context, scope Scope, deltas DeltaSet) (DeltaSet, error)

	// SetQuantity sets a ledger cell to an absolute value, creating the
	// entry if it does not exist. Used by the audit approval path only.
	SetQuantity(ctx context.Context, scope Scope, productID uuid.UUID, quantity int64) error

	// DecrementIfAvailable decrements a cell only if the current quantity
	// covers the requested amount. Returns false without mutating when it
	// does not; this is the conditional write that keeps concurrent
	// writers from double-spending the same units.
	DecrementIfAvailable(ctx context.Context, scope Scope, productID uuid.UUID, quantity int64) (bool, error)

	// RemoveIfZero deletes a college ledger entry when its quantity
	// reached zero. No-op for the central ledger.
	RemoveIfZero(ctx context.Context, scope Scope, productID uuid.UUID) error
}
