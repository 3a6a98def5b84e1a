// Package audit implements the manual count approval workflow. A count
// override never touches the ledger until a reviewer approves it.
package audit

import (
	"context"
	"errors"

	"github.com/campusstore/backend/internal/application/scope"
	"github.com/campusstore/backend/internal/domain/audit"
	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/campusstore/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditService orchestrates stock audit proposals and reviews
type AuditService struct {
	scope     scope.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(txScope scope.TransactionScope, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		scope:  txScope,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *AuditService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Propose records a pending count override for one ledger cell
func (s *AuditService) Propose(ctx context.Context, req ProposeAuditRequest) (*AuditResponse, error) {
	var created *audit.StockAudit
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		product, err := repos.Products().FindByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Product", req.ProductID)
			}
			return err
		}

		if req.CollegeID != nil && *req.CollegeID != uuid.Nil {
			if _, err := repos.Colleges().FindByID(ctx, *req.CollegeID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewNotFoundError("College", *req.CollegeID)
				}
				return err
			}
		}

		before, err := s.beforeQuantity(ctx, repos, req, product.Catalog)
		if err != nil {
			return err
		}

		a, err := audit.NewStockAudit(product, req.CollegeID, before, req.AfterQuantity, req.ProposedByName)
		if err != nil {
			return err
		}
		if err := repos.Audits().Save(ctx, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created)

	s.logger.Info("audit proposed",
		zap.String("audit_id", created.ID.String()),
		zap.String("product_id", created.ProductID.String()),
		zap.Int64("before_quantity", created.BeforeQuantity),
		zap.Int64("after_quantity", created.AfterQuantity))

	response := ToAuditResponse(created)
	return &response, nil
}

// Approve approves a pending audit and writes the approved quantity to
// the ledger cell as an absolute value. The write and the status change
// share one scope.
func (s *AuditService) Approve(ctx context.Context, id uuid.UUID, req ReviewAuditRequest) (*AuditResponse, error) {
	var approved *audit.StockAudit
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		a, err := repos.Audits().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := a.Approve(req.ReviewerID, req.ReviewerName, req.Note); err != nil {
			return err
		}

		target := a.Scope()
		if err := repos.Ledger().SetQuantity(ctx, target, a.ProductID, a.AfterQuantity); err != nil {
			return err
		}
		if a.AfterQuantity == 0 {
			if err := repos.Ledger().RemoveIfZero(ctx, target, a.ProductID); err != nil {
				return err
			}
		}

		if err := repos.Audits().Save(ctx, a); err != nil {
			return err
		}
		approved = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, approved)

	s.logger.Info("audit approved",
		zap.String("audit_id", approved.ID.String()),
		zap.String("product_id", approved.ProductID.String()),
		zap.Int64("after_quantity", approved.AfterQuantity))

	response := ToAuditResponse(approved)
	return &response, nil
}

// Reject rejects a pending audit with the reviewer's note. No ledger
// effect.
func (s *AuditService) Reject(ctx context.Context, id uuid.UUID, req ReviewAuditRequest) (*AuditResponse, error) {
	var rejected *audit.StockAudit
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		a, err := repos.Audits().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := a.Reject(req.ReviewerID, req.ReviewerName, req.Note); err != nil {
			return err
		}
		if err := repos.Audits().Save(ctx, a); err != nil {
			return err
		}
		rejected = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, rejected)

	s.logger.Info("audit rejected", zap.String("audit_id", rejected.ID.String()))

	response := ToAuditResponse(rejected)
	return &response, nil
}

// Get returns an audit by ID
func (s *AuditService) Get(ctx context.Context, id uuid.UUID) (*AuditResponse, error) {
	var found *audit.StockAudit
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		a, err := repos.Audits().FindByID(ctx, id)
		if err != nil {
			return err
		}
		found = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToAuditResponse(found)
	return &response, nil
}

// List returns audits matching the request, paginated
func (s *AuditService) List(ctx context.Context, req ListAuditsRequest) (*shared.Paginated[AuditResponse], error) {
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

	var audits []audit.StockAudit
	var total int64
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		audits, err = repos.Audits().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err = repos.Audits().Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]AuditResponse, 0, len(audits))
	for i := range audits {
		responses = append(responses, ToAuditResponse(&audits[i]))
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// beforeQuantity prefers the proposer's observed count and falls back to
// the current ledger quantity
func (s *AuditService) beforeQuantity(ctx context.Context, repos scope.Repositories, req ProposeAuditRequest, kind catalog.CatalogKind) (int64, error) {
	if req.BeforeQuantity != nil {
		return *req.BeforeQuantity, nil
	}
	target := stock.Central(kind)
	if req.CollegeID != nil && *req.CollegeID != uuid.Nil {
		target = stock.AtCollege(*req.CollegeID, kind)
	}
	return repos.Ledger().Get(ctx, target, req.ProductID)
}

func (s *AuditService) publishEvents(ctx context.Context, a *audit.StockAudit) {
	if s.publisher == nil || a == nil {
		return
	}
	events := a.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish audit events",
			zap.String("audit_id", a.ID.String()), zap.Error(err))
	}
	a.ClearDomainEvents()
}
