// Package transfer implements the transfer engine: moving stock from
// the central warehouse to college ledgers through a pending, completed,
// cancelled lifecycle.
package transfer

import (
	"context"
	"errors"

	"github.com/campusstore/backend/internal/application/scope"
	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/sales"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/campusstore/backend/internal/domain/stock"
	"github.com/campusstore/backend/internal/domain/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransferService orchestrates stock transfers. Completion moves stock
// and writes the mirrored transaction inside one scope, so the central
// decrement, the college credit and the revenue record land atomically.
type TransferService struct {
	scope     scope.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewTransferService creates a new TransferService
func NewTransferService(txScope scope.TransactionScope, logger *zap.Logger) *TransferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferService{
		scope:  txScope,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create records a pending transfer. Product names, catalogs and prices
// are snapshotted now; no stock moves until Complete. When the transfer
// will deduct from central stock, current central availability is
// checked up front so an obviously unfillable transfer is rejected
// early, though Complete re-checks under the scope regardless.
func (s *TransferService) Create(ctx context.Context, req CreateTransferRequest) (*TransferResponse, error) {
	deductFromCentral := true
	if req.DeductFromCentral != nil {
		deductFromCentral = *req.DeductFromCentral
	}
	includeInRevenue := true
	if req.IncludeInRevenue != nil {
		includeInRevenue = *req.IncludeInRevenue
	}

	var created *transfer.StockTransfer
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if _, err := repos.Colleges().FindByID(ctx, req.ToCollegeID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("College", req.ToCollegeID)
			}
			return err
		}

		specs, err := resolveSpecs(ctx, repos, req.Items)
		if err != nil {
			return err
		}

		if deductFromCentral {
			for _, spec := range specs {
				available, err := repos.Ledger().Get(ctx, stock.Central(spec.Product.Catalog), spec.Product.ID)
				if err != nil {
					return err
				}
				if available < spec.Quantity {
					return shared.NewInsufficientStockError(spec.Product.Name, available, spec.Quantity)
				}
			}
		}

		t, err := transfer.NewStockTransfer(req.ToCollegeID, specs, deductFromCentral, includeInRevenue, req.IsPaid)
		if err != nil {
			return err
		}
		t.Remark = req.Remark

		if err := repos.Transfers().Save(ctx, t); err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created)

	s.logger.Info("transfer created",
		zap.String("transfer_id", created.ID.String()),
		zap.String("to_college_id", created.ToCollegeID.String()),
		zap.Int("items", len(created.Items)))

	response := ToTransferResponse(created)
	return &response, nil
}

// Get returns a transfer by ID
func (s *TransferService) Get(ctx context.Context, id uuid.UUID) (*TransferResponse, error) {
	var found *transfer.StockTransfer
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		t, err := repos.Transfers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		found = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToTransferResponse(found)
	return &response, nil
}

// List returns transfers matching the request, paginated
func (s *TransferService) List(ctx context.Context, req ListTransfersRequest) (*shared.Paginated[TransferResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.ToCollegeID != nil {
		filter.Filters["to_college_id"] = *req.ToCollegeID
	}

	var transfers []transfer.StockTransfer
	var total int64
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		transfers, err = repos.Transfers().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err = repos.Transfers().Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]TransferResponse, 0, len(transfers))
	for i := range transfers {
		responses = append(responses, ToTransferResponse(&transfers[i]))
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Complete executes a pending transfer: conditionally decrement central
// stock per item, credit the destination college ledger, and record the
// mirrored transaction. The mirror is always written; a transfer that
// does not count toward revenue carries that note in the mirror's
// remark so reporting can exclude it while the record remains. Any
// failure rolls the whole movement back.
func (s *TransferService) Complete(ctx context.Context, id uuid.UUID) (*TransferResponse, error) {
	var completed *transfer.StockTransfer
	var mirror *sales.Transaction
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		t, err := repos.Transfers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if t.Status != transfer.StatusPending {
			return shared.NewDomainError(shared.CodeInvalidStateTransition,
				"Cannot transition transfer from "+t.Status.String()+" to COMPLETED")
		}

		if t.DeductFromCentral {
			for _, item := range t.Items {
				central := stock.Central(item.Catalog)
				ok, err := repos.Ledger().DecrementIfAvailable(ctx, central, item.ProductID, item.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					available, err := repos.Ledger().Get(ctx, central, item.ProductID)
					if err != nil {
						return err
					}
					return shared.NewInsufficientStockError(item.NameSnapshot, available, item.Quantity)
				}
			}
		}

		for kind, deltas := range creditDeltas(t) {
			if _, err := repos.Ledger().ApplyBatch(ctx, stock.AtCollege(t.ToCollegeID, kind), deltas); err != nil {
				return err
			}
		}

		mirror, err = buildMirrorTransaction(t)
		if err != nil {
			return err
		}
		if err := repos.Transactions().Save(ctx, mirror); err != nil {
			return err
		}

		if err := t.Complete(&mirror.ID); err != nil {
			return err
		}
		if err := repos.Transfers().Save(ctx, t); err != nil {
			return err
		}

		completed = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, completed)
	if mirror != nil {
		s.publishTransactionEvents(ctx, mirror)
	}

	s.logger.Info("transfer completed",
		zap.String("transfer_id", completed.ID.String()),
		zap.String("to_college_id", completed.ToCollegeID.String()),
		zap.Bool("deduct_from_central", completed.DeductFromCentral),
		zap.Bool("include_in_revenue", completed.IncludeInRevenue))

	response := ToTransferResponse(completed)
	return &response, nil
}

// Cancel cancels a pending transfer. Nothing has moved yet, so there is
// no ledger effect.
func (s *TransferService) Cancel(ctx context.Context, id uuid.UUID, req CancelTransferRequest) (*TransferResponse, error) {
	var cancelled *transfer.StockTransfer
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		t, err := repos.Transfers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := t.Cancel(req.Reason); err != nil {
			return err
		}
		if err := repos.Transfers().Save(ctx, t); err != nil {
			return err
		}
		cancelled = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, cancelled)

	s.logger.Info("transfer cancelled", zap.String("transfer_id", cancelled.ID.String()))

	response := ToTransferResponse(cancelled)
	return &response, nil
}

// Delete removes a transfer record. Deleting a completed transfer
// reverses the whole movement: the college credit is withdrawn, central
// stock is returned when it was deducted, and the mirrored transaction
// is removed with it.
func (s *TransferService) Delete(ctx context.Context, id uuid.UUID) error {
	var wasCompleted bool
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		t, err := repos.Transfers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		wasCompleted = t.Status == transfer.StatusCompleted

		if wasCompleted {
			if err := s.reverse(ctx, repos, t); err != nil {
				return err
			}
		}

		return repos.Transfers().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, transfer.NewTransferDeletedEvent(id, wasCompleted)); err != nil {
			s.logger.Warn("failed to publish transfer deleted event",
				zap.String("transfer_id", id.String()), zap.Error(err))
		}
	}

	s.logger.Info("transfer deleted",
		zap.String("transfer_id", id.String()),
		zap.Bool("was_completed", wasCompleted))
	return nil
}

// reverse undoes a completed transfer's ledger movement and removes its
// mirrored transaction. College withdrawals clamp at zero: units already
// sold on cannot be pulled back, and the clamp is logged as drift.
func (s *TransferService) reverse(ctx context.Context, repos scope.Repositories, t *transfer.StockTransfer) error {
	for kind, deltas := range creditDeltas(t) {
		withdraw := make(stock.DeltaSet, len(deltas))
		for productID, qty := range deltas {
			withdraw.Add(productID, -qty)
		}
		collegeScope := stock.AtCollege(t.ToCollegeID, kind)
		applied, err := repos.Ledger().ApplyBatch(ctx, collegeScope, withdraw)
		if err != nil {
			return err
		}
		for productID, want := range withdraw {
			if got := applied[productID]; got != want {
				s.logger.Warn("transfer reversal clamped a college withdrawal",
					zap.String("transfer_id", t.ID.String()),
					zap.String("product_id", productID.String()),
					zap.Int64("requested_delta", want),
					zap.Int64("applied_delta", got))
			}
			if err := repos.Ledger().RemoveIfZero(ctx, collegeScope, productID); err != nil {
				return err
			}
		}
	}

	if t.DeductFromCentral {
		for kind, deltas := range creditDeltas(t) {
			if _, err := repos.Ledger().ApplyBatch(ctx, stock.Central(kind), deltas); err != nil {
				return err
			}
		}
	}

	if t.LinkedTransactionID != nil {
		if err := repos.Transactions().Delete(ctx, *t.LinkedTransactionID); err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
	}

	return nil
}

// creditDeltas groups the transfer's quantities as positive deltas per
// catalog ledger
func creditDeltas(t *transfer.StockTransfer) map[catalog.CatalogKind]stock.DeltaSet {
	byCatalog := make(map[catalog.CatalogKind]stock.DeltaSet)
	for _, item := range t.Items {
		deltas, ok := byCatalog[item.Catalog]
		if !ok {
			deltas = make(stock.DeltaSet)
			byCatalog[item.Catalog] = deltas
		}
		deltas.Add(item.ProductID, item.Quantity)
	}
	return byCatalog
}

// buildMirrorTransaction creates the transaction record for a completed
// transfer. The mirror holds no ledger claim of its own; the transfer
// already moved the stock.
func buildMirrorTransaction(t *transfer.StockTransfer) (*sales.Transaction, error) {
	collegeID := t.ToCollegeID
	tx, err := sales.NewTransaction(sales.KindTransfer, &collegeID, nil, t.IsPaid)
	if err != nil {
		return nil, err
	}
	remark := "Stock transfer " + t.ID.String()
	if !t.IncludeInRevenue {
		remark += " (excluded from revenue)"
	}
	tx.SetRemark(remark)

	items := make([]sales.TransactionItem, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, sales.TransactionItem{
			ProductID:    item.ProductID,
			NameSnapshot: item.NameSnapshot,
			Catalog:      item.Catalog,
			Quantity:     item.Quantity,
			UnitPrice:    item.PriceSnapshot,
			LineTotal:    item.PriceSnapshot.Mul(decimal.NewFromInt(item.Quantity)),
			Status:       sales.ItemFulfilled,
		})
	}
	if err := tx.ReplaceItems(items); err != nil {
		return nil, err
	}

	return tx, nil
}

func resolveSpecs(ctx context.Context, repos scope.Repositories, items []TransferItemRequest) ([]transfer.ItemSpec, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, shared.NewValidationError("Transfer item has no product")
		}
		ids = append(ids, item.ProductID)
	}

	products, err := repos.Products().FindByIDs(ctx, ids)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	specs := make([]transfer.ItemSpec, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, shared.NewNotFoundError("Product", item.ProductID)
		}
		specs = append(specs, transfer.ItemSpec{Product: product, Quantity: item.Quantity})
	}

	return specs, nil
}

func (s *TransferService) publishEvents(ctx context.Context, t *transfer.StockTransfer) {
	if s.publisher == nil || t == nil {
		return
	}
	events := t.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish transfer events",
			zap.String("transfer_id", t.ID.String()), zap.Error(err))
	}
	t.ClearDomainEvents()
}

func (s *TransferService) publishTransactionEvents(ctx context.Context, tx *sales.Transaction) {
	if s.publisher == nil || tx == nil {
		return
	}
	events := tx.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish mirrored transaction events",
			zap.String("transaction_id", tx.ID.String()), zap.Error(err))
	}
	tx.ClearDomainEvents()
}
