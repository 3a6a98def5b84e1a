// Package sales implements the transaction engine: recording purchases,
// deciding fulfillment against projected availability, and keeping the
// stock ledger consistent across edits and deletions.
package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusstore/backend/internal/application/scope"
	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/sales"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/campusstore/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionService orchestrates purchase recording. All ledger writes
// happen inside a transaction scope so a multi-item commit is atomic:
// either every decided delta lands or none does.
type TransactionService struct {
	scope     scope.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(txScope scope.TransactionScope, logger *zap.Logger) *TransactionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionService{
		scope:  txScope,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *TransactionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create records a purchase. Fulfillment is decided per item against
// availability projected over earlier items of the same request; for a
// paid purchase the decided deltas are committed to the college ledger
// before the transaction is persisted. An unpaid purchase records the
// intended allocation but reserves nothing.
func (s *TransactionService) Create(ctx context.Context, req CreateTransactionRequest) (*TransactionResponse, error) {
	if err := validateItemRequests(req.Items); err != nil {
		return nil, err
	}

	var created *sales.Transaction
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		collegeID, err := s.resolveCollege(ctx, repos, req.CollegeID, req.StaffID, req.StudentID)
		if err != nil {
			return err
		}

		tx, err := sales.NewTransaction(sales.KindPurchase, &collegeID, req.StudentID, req.IsPaid)
		if err != nil {
			return err
		}
		tx.SetRemark(req.Remark)

		items, pending, err := buildItems(ctx, repos, collegeID, req.Items, req.IsPaid)
		if err != nil {
			return err
		}
		if err := tx.ReplaceItems(items); err != nil {
			return err
		}

		if req.IsPaid {
			if err := s.commitByCatalog(ctx, repos, tx, collegeID, pending); err != nil {
				return err
			}
		}

		if err := repos.Transactions().Save(ctx, tx); err != nil {
			return err
		}
		if err := s.markItemsReceived(ctx, repos, tx); err != nil {
			return err
		}

		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created)

	s.logger.Info("transaction created",
		zap.String("transaction_id", created.ID.String()),
		zap.Bool("is_paid", created.IsPaid),
		zap.Bool("partial", created.HasPartialItems()))

	response := ToTransactionResponse(created)
	return &response, nil
}

// Get returns a transaction by ID
func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	var found *sales.Transaction
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		tx, err := repos.Transactions().FindByID(ctx, id)
		if err != nil {
			return err
		}
		found = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToTransactionResponse(found)
	return &response, nil
}

// List returns transactions matching the request, paginated
func (s *TransactionService) List(ctx context.Context, req ListTransactionsRequest) (*shared.Paginated[TransactionResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.Kind != "" {
		filter.Filters["kind"] = req.Kind
	}
	if req.CollegeID != nil {
		filter.Filters["college_id"] = *req.CollegeID
	}
	if req.StudentID != nil {
		filter.Filters["student_id"] = *req.StudentID
	}
	if req.IsPaid != nil {
		filter.Filters["is_paid"] = *req.IsPaid
	}

	var transactions []sales.Transaction
	var total int64
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		transactions, err = repos.Transactions().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err = repos.Transactions().Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		responses = append(responses, ToTransactionResponse(&transactions[i]))
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Edit updates a recorded purchase. Any live ledger claim is restored
// first, then the (possibly replaced) items are re-validated and
// re-deducted from scratch under the new payment flag. Restore and
// re-deduction run in one scope so no observer sees the intermediate
// state.
func (s *TransactionService) Edit(ctx context.Context, id uuid.UUID, req EditTransactionRequest) (*TransactionResponse, error) {
	if req.Items != nil {
		if err := validateItemRequests(req.Items); err != nil {
			return nil, err
		}
	}

	var edited *sales.Transaction
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		tx, err := repos.Transactions().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if tx.Kind == sales.KindTransfer {
			return shared.NewDomainError(shared.CodeInvalidState,
				"Transfer-linked transactions are managed by their stock transfer")
		}
		if tx.CollegeID == nil {
			return shared.ErrLocationRequired
		}
		collegeID := *tx.CollegeID

		if tx.StockDeducted {
			if err := s.restore(ctx, repos, tx, collegeID); err != nil {
				return err
			}
			tx.MarkStockDeducted(false)
		}

		newPaid := tx.IsPaid
		if req.IsPaid != nil {
			newPaid = *req.IsPaid
		}
		itemReqs := req.Items
		if itemReqs == nil {
			itemReqs = deriveItemRequests(tx)
		}

		items, pending, err := buildItems(ctx, repos, collegeID, itemReqs, newPaid)
		if err != nil {
			return err
		}
		if err := tx.ReplaceItems(items); err != nil {
			return err
		}
		tx.SetPaid(newPaid)
		if req.Remark != nil {
			tx.SetRemark(*req.Remark)
		}

		if newPaid {
			if err := s.commitByCatalog(ctx, repos, tx, collegeID, pending); err != nil {
				return err
			}
		}

		tx.AddDomainEvent(sales.NewTransactionUpdatedEvent(tx))

		if err := repos.Transactions().Save(ctx, tx); err != nil {
			return err
		}
		if err := s.markItemsReceived(ctx, repos, tx); err != nil {
			return err
		}

		edited = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, edited)

	s.logger.Info("transaction edited",
		zap.String("transaction_id", edited.ID.String()),
		zap.Bool("is_paid", edited.IsPaid),
		zap.Bool("stock_deducted", edited.StockDeducted))

	response := ToTransactionResponse(edited)
	return &response, nil
}

// SetPaid toggles the payment flag, re-validating stock with the stored
// items
func (s *TransactionService) SetPaid(ctx context.Context, id uuid.UUID, paid bool) (*TransactionResponse, error) {
	return s.Edit(ctx, id, EditTransactionRequest{IsPaid: &paid})
}

// Delete removes a purchase, returning any deducted stock to the
// college ledger first
func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	var kind sales.TransactionKind
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		tx, err := repos.Transactions().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if tx.Kind == sales.KindTransfer {
			return shared.NewDomainError(shared.CodeInvalidState,
				"Transfer-linked transactions are managed by their stock transfer")
		}

		if tx.StockDeducted && tx.CollegeID != nil {
			if err := s.restore(ctx, repos, tx, *tx.CollegeID); err != nil {
				return err
			}
		}

		kind = tx.Kind
		return repos.Transactions().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, sales.NewTransactionDeletedEvent(id, kind)); err != nil {
			s.logger.Warn("failed to publish transaction deleted event",
				zap.String("transaction_id", id.String()), zap.Error(err))
		}
	}

	s.logger.Info("transaction deleted", zap.String("transaction_id", id.String()))
	return nil
}

// resolveCollege walks the location chain: explicit college, then the
// staff member's assignment, then the college offering the student's
// course. Every purchase must land on exactly one college ledger.
func (s *TransactionService) resolveCollege(ctx context.Context, repos scope.Repositories, collegeID, staffID, studentID *uuid.UUID) (uuid.UUID, error) {
	if collegeID != nil && *collegeID != uuid.Nil {
		c, err := repos.Colleges().FindByID(ctx, *collegeID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return uuid.Nil, shared.NewNotFoundError("College", *collegeID)
			}
			return uuid.Nil, err
		}
		return c.ID, nil
	}

	if staffID != nil && *staffID != uuid.Nil {
		staff, err := repos.Staff().FindByID(ctx, *staffID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, err
		}
		if staff != nil && staff.AssignedCollegeID != nil && *staff.AssignedCollegeID != uuid.Nil {
			return *staff.AssignedCollegeID, nil
		}
	}

	if studentID != nil && *studentID != uuid.Nil {
		student, err := repos.Students().FindByID(ctx, *studentID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, err
		}
		if student != nil {
			if student.CollegeID != nil && *student.CollegeID != uuid.Nil {
				return *student.CollegeID, nil
			}
			if student.Course != "" {
				c, err := repos.Colleges().FindByCourse(ctx, student.Course)
				if err != nil && !errors.Is(err, shared.ErrNotFound) {
					return uuid.Nil, err
				}
				if c != nil {
					return c.ID, nil
				}
			}
		}
	}

	return uuid.Nil, shared.ErrLocationRequired
}

// commitByCatalog applies the decided deltas per catalog ledger and
// marks the transaction as holding a live claim. Applied deltas are
// compared against the decided ones; a mismatch means the snapshot
// drifted between projection and commit and is logged rather than
// failed, since the clamp already kept the ledger non-negative.
func (s *TransactionService) commitByCatalog(ctx context.Context, repos scope.Repositories, tx *sales.Transaction, collegeID uuid.UUID, pending map[catalog.CatalogKind]stock.DeltaSet) error {
	committed := 0
	for kind, deltas := range pending {
		if !deltas.HasDeltas() {
			continue
		}
		applied, err := repos.Ledger().ApplyBatch(ctx, stock.AtCollege(collegeID, kind), deltas)
		if err != nil {
			return err
		}
		s.logDrift(tx.ID, deltas, applied)
		committed += len(deltas)
	}

	if committed > 0 {
		tx.MarkStockDeducted(true)
		tx.AddDomainEvent(sales.NewStockCommittedEvent(tx, collegeID, committed))
	}
	return nil
}

// restore returns every deducted unit to the ledger: the exact inverse
// of the recorded commit
func (s *TransactionService) restore(ctx context.Context, repos scope.Repositories, tx *sales.Transaction, collegeID uuid.UUID) error {
	restored := 0
	for kind, deltas := range tx.RestoreDeltas() {
		if !deltas.HasDeltas() {
			continue
		}
		applied, err := repos.Ledger().ApplyBatch(ctx, stock.AtCollege(collegeID, kind), deltas)
		if err != nil {
			return err
		}
		s.logDrift(tx.ID, deltas, applied)
		restored += len(deltas)
	}

	if restored > 0 {
		tx.AddDomainEvent(sales.NewStockRestoredEvent(tx, collegeID, restored))
	}
	return nil
}

func (s *TransactionService) logDrift(txID uuid.UUID, requested, applied stock.DeltaSet) {
	for productID, want := range requested {
		if got := applied[productID]; got != want {
			s.logger.Warn("ledger clamp adjusted a delta",
				zap.String("transaction_id", txID.String()),
				zap.String("product_id", productID.String()),
				zap.Int64("requested_delta", want),
				zap.Int64("applied_delta", got))
		}
	}
}

// markItemsReceived records handed-out item names on the student profile
func (s *TransactionService) markItemsReceived(ctx context.Context, repos scope.Repositories, tx *sales.Transaction) error {
	if tx.StudentID == nil || *tx.StudentID == uuid.Nil {
		return nil
	}

	student, err := repos.Students().FindByID(ctx, *tx.StudentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	changed := false
	for _, item := range tx.Items {
		if item.IsSet {
			for _, component := range item.Components {
				if component.Taken && student.MarkItemReceived(component.NameSnapshot) {
					changed = true
				}
			}
			continue
		}
		if item.DeductedQuantity > 0 || !tx.IsPaid {
			if student.MarkItemReceived(item.NameSnapshot) {
				changed = true
			}
		}
	}

	if !changed {
		return nil
	}
	return repos.Students().Save(ctx, student)
}

func (s *TransactionService) publishEvents(ctx context.Context, tx *sales.Transaction) {
	if s.publisher == nil || tx == nil {
		return
	}
	events := tx.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish transaction events",
			zap.String("transaction_id", tx.ID.String()), zap.Error(err))
	}
	tx.ClearDomainEvents()
}

func validateItemRequests(items []ItemRequest) error {
	if len(items) == 0 {
		return shared.NewValidationError("A transaction must have at least one item")
	}
	for i, item := range items {
		if item.ProductID == uuid.Nil {
			return shared.NewValidationError(fmt.Sprintf("Item %d has no product", i+1))
		}
		if item.Quantity < 1 {
			return shared.NewValidationError(fmt.Sprintf("Item %d quantity must be at least 1", i+1))
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return shared.NewValidationError(fmt.Sprintf("Item %d unit price cannot be negative", i+1))
		}
	}
	return nil
}

// deriveItemRequests rebuilds item requests from stored items so a
// payment toggle re-validates the same lines. Operator-withheld
// components are not carried over; the rebuild re-attempts every
// component against current availability.
func deriveItemRequests(tx *sales.Transaction) []ItemRequest {
	requests := make([]ItemRequest, 0, len(tx.Items))
	for _, item := range tx.Items {
		price := item.UnitPrice
		requests = append(requests, ItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: &price,
		})
	}
	return requests
}
