package college

import (
	"time"

	"github.com/campusstore/backend/internal/domain/catalog"
	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// College is the aggregate root for a college location. Each college
// exclusively owns its stock ledger entries, one per (catalog, product);
// the entries themselves are persisted as StockEntry rows and mutated
// through the stock.Ledger contract.
type College struct {
	shared.BaseAggregateRoot
	Name    string   `gorm:"size:255;not null"`
	Code    string   `gorm:"size:32;not null;uniqueIndex"`
	Courses []string `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (College) TableName() string {
	return "colleges"
}

// NewCollege creates a new college
func NewCollege(name, code string, courses []string) (*College, error) {
	if name == "" {
		return nil, shared.NewValidationError("College name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewValidationError("College code cannot be empty")
	}
	if courses == nil {
		courses = make([]string, 0)
	}

	return &College{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		Courses:           courses,
	}, nil
}

// OffersCourse reports whether the college's configured course list
// contains the given course
func (c *College) OffersCourse(course string) bool {
	if course == "" {
		return false
	}
	for _, candidate := range c.Courses {
		if candidate == course {
			return true
		}
	}
	return false
}

// UpdateCourses replaces the configured course list
func (c *College) UpdateCourses(courses []string) {
	if courses == nil {
		courses = make([]string, 0)
	}
	c.Courses = courses
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// StockEntry is one ledger cell: the quantity of one product at one
// college within one catalog. Absent rows read as zero.
type StockEntry struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey"`
	CollegeID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_stock_entry_cell,priority:1"`
	Catalog   catalog.CatalogKind `gorm:"size:16;not null;uniqueIndex:idx_stock_entry_cell,priority:2"`
	ProductID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_stock_entry_cell,priority:3"`
	Quantity  int64               `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (StockEntry) TableName() string {
	return "college_stock_entries"
}
