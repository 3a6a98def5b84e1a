package sales

import (
	"context"
	"errors"

	"github.com/campusstore/backend/internal/application/scope"
	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/sales"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/campusstore/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const reasonWithheld = "Not taken by student"

type requestLine struct {
	req          ItemRequest
	product      *catalog.Product
	requirements []catalog.Requirement
}

// buildItems turns item requests into fulfillment-decided transaction
// items plus the ledger deltas implied by the decisions, grouped by
// catalog. Availability for item N is projected over the deductions
// already decided for items 1..N-1, so one request never allocates the
// same unit twice. For an unpaid purchase the intended allocation is
// recorded but no deltas are produced.
//
// Plain items deduct as much as is available, up to the requested
// quantity. Set components are all-or-nothing per component: either the
// full component quantity is taken or none of it.
func buildItems(ctx context.Context, repos scope.Repositories, collegeID uuid.UUID, reqs []ItemRequest, isPaid bool) ([]sales.TransactionItem, map[catalog.CatalogKind]stock.DeltaSet, error) {
	lines, err := resolveLines(ctx, repos, reqs)
	if err != nil {
		return nil, nil, err
	}

	projectors, err := snapshotLedgers(ctx, repos, collegeID, lines)
	if err != nil {
		return nil, nil, err
	}

	items := make([]sales.TransactionItem, 0, len(lines))
	for _, line := range lines {
		projector := projectors[line.product.Catalog]

		unitPrice := line.product.Price
		if line.req.UnitPrice != nil {
			unitPrice = *line.req.UnitPrice
		}

		item := sales.TransactionItem{
			ProductID:    line.product.ID,
			NameSnapshot: line.product.Name,
			Catalog:      line.product.Catalog,
			Quantity:     line.req.Quantity,
			UnitPrice:    unitPrice,
			LineTotal:    unitPrice.Mul(decimal.NewFromInt(line.req.Quantity)),
			IsSet:        line.product.IsSet,
			Status:       sales.ItemFulfilled,
		}

		if line.product.IsSet {
			fulfillSetItem(&item, line, projector, isPaid)
		} else {
			fulfillPlainItem(&item, line, projector, isPaid)
		}

		items = append(items, item)
	}

	pending := make(map[catalog.CatalogKind]stock.DeltaSet)
	for kind, projector := range projectors {
		if projector.Pending().HasDeltas() {
			pending[kind] = projector.Pending()
		}
	}

	return items, pending, nil
}

// resolveLines batch-loads the requested products and expands each
// through the set resolver
func resolveLines(ctx context.Context, repos scope.Repositories, reqs []ItemRequest) ([]requestLine, error) {
	ids := make([]uuid.UUID, 0, len(reqs))
	seen := make(map[uuid.UUID]bool, len(reqs))
	for _, req := range reqs {
		if !seen[req.ProductID] {
			seen[req.ProductID] = true
			ids = append(ids, req.ProductID)
		}
	}

	products, err := repos.Products().FindByIDs(ctx, ids)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	resolver := catalog.NewSetResolver(repos.Products())

	lines := make([]requestLine, 0, len(reqs))
	for _, req := range reqs {
		product, ok := byID[req.ProductID]
		if !ok {
			return nil, shared.NewNotFoundError("Product", req.ProductID)
		}
		requirements, err := resolver.Expand(ctx, product, req.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, requestLine{req: req, product: product, requirements: requirements})
	}

	return lines, nil
}

// snapshotLedgers reads the college ledger once per catalog, covering
// every product any requirement touches
func snapshotLedgers(ctx context.Context, repos scope.Repositories, collegeID uuid.UUID, lines []requestLine) (map[catalog.CatalogKind]*stock.Projector, error) {
	perKind := make(map[catalog.CatalogKind][]uuid.UUID)
	seen := make(map[uuid.UUID]bool)
	for _, line := range lines {
		for _, requirement := range line.requirements {
			id := requirement.Product.ID
			if seen[id] {
				continue
			}
			seen[id] = true
			kind := requirement.Product.Catalog
			perKind[kind] = append(perKind[kind], id)
		}
	}

	projectors := make(map[catalog.CatalogKind]*stock.Projector, len(perKind))
	for kind, productIDs := range perKind {
		snapshot, err := repos.Ledger().GetMany(ctx, stock.AtCollege(collegeID, kind), productIDs)
		if err != nil {
			return nil, err
		}
		projectors[kind] = stock.NewProjector(snapshot)
	}

	return projectors, nil
}

// fulfillPlainItem deducts up to the requested quantity. A shortfall
// deducts whatever is projected available and marks the item partial.
func fulfillPlainItem(item *sales.TransactionItem, line requestLine, projector *stock.Projector, isPaid bool) {
	if !isPaid {
		return
	}

	required := line.requirements[0].Required
	projected := projector.Projected(line.product.ID)
	if projected < 0 {
		projected = 0
	}

	deduct := required
	if projected < required {
		deduct = projected
		item.Status = sales.ItemPartial
		item.ShortfallReason = shared.NewInsufficientStockError(line.product.Name, projected, required).Message
	}

	if deduct > 0 {
		projector.Decide(line.product.ID, -deduct)
	}
	item.DeductedQuantity = deduct
}

// fulfillSetItem decides each component all-or-nothing. Operator-
// withheld components are never taken; the rest are taken only when the
// full component quantity is projected available.
func fulfillSetItem(item *sales.TransactionItem, line requestLine, projector *stock.Projector, isPaid bool) {
	withheld := make(map[uuid.UUID]bool, len(line.req.ComponentsNotTaken))
	for _, id := range line.req.ComponentsNotTaken {
		withheld[id] = true
	}

	components := make([]sales.SetComponentRecord, 0, len(line.requirements))
	for _, requirement := range line.requirements {
		record := sales.SetComponentRecord{
			ComponentID:  requirement.Product.ID,
			NameSnapshot: requirement.Product.Name,
			Quantity:     requirement.Required,
		}

		switch {
		case withheld[requirement.Product.ID]:
			record.Reason = reasonWithheld
			item.Status = sales.ItemPartial
		case !isPaid:
			record.Taken = true
		default:
			projected := projector.Projected(requirement.Product.ID)
			if projected >= requirement.Required {
				record.Taken = true
				projector.Decide(requirement.Product.ID, -requirement.Required)
			} else {
				record.Reason = shared.NewInsufficientStockError(
					requirement.Product.Name, projected, requirement.Required).Message
				item.Status = sales.ItemPartial
			}
		}

		components = append(components, record)
	}

	item.Components = components
}
