package stock

import "github.com/google/uuid"

// Projector computes available quantity for a product given a ledger
// snapshot plus deltas already decided within the same in-flight
// operation but not yet committed. It exists so item N's availability
// check accounts for deductions decided for items 1..N-1 of the same
// request, preventing the same unit from being allocated twice.
type Projector struct {
	snapshot map[uuid.UUID]int64
	pending  DeltaSet
}

// NewProjector creates a projector over a ledger snapshot
func NewProjector(snapshot map[uuid.UUID]int64) *Projector {
	if snapshot == nil {
		snapshot = make(map[uuid.UUID]int64)
	}
	return &Projector{
		snapshot: snapshot,
		pending:  make(DeltaSet),
	}
}

// Projected returns snapshot quantity plus pending deltas for a product
func (p *Projector) Projected(productID uuid.UUID) int64 {
	return p.snapshot[productID] + p.pending[productID]
}

// Decide records a delta as decided-but-uncommitted
func (p *Projector) Decide(productID uuid.UUID, delta int64) {
	p.pending.Add(productID, delta)
}

// Pending returns the accumulated deltas decided so far
func (p *Projector) Pending() DeltaSet {
	return p.pending
}
