package identity

import (
	"strings"
	"time"

	"github.com/campusstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Student is a purchase recipient. ReceivedItems is a set of normalized
// product names recording which item categories the student has already
// been handed; it is a denormalized convenience flag, never consulted by
// the stock ledger.
type Student struct {
	shared.BaseAggregateRoot
	Name          string     `gorm:"size:255;not null"`
	RollNumber    string     `gorm:"size:64;not null;uniqueIndex"`
	Course        string     `gorm:"size:128"`
	CollegeID     *uuid.UUID `gorm:"type:uuid;index"`
	ReceivedItems []string   `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (Student) TableName() string {
	return "students"
}

// NewStudent creates a new student
func NewStudent(name, rollNumber, course string) (*Student, error) {
	if name == "" {
		return nil, shared.NewValidationError("Student name cannot be empty")
	}
	if rollNumber == "" {
		return nil, shared.NewValidationError("Student roll number cannot be empty")
	}

	return &Student{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		RollNumber:        rollNumber,
		Course:            course,
		ReceivedItems:     make([]string, 0),
	}, nil
}

// NormalizeItemName is the normalization applied before an item name
// enters the received set: lowercased, trimmed, inner runs of whitespace
// collapsed to a single space.
func NormalizeItemName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// MarkItemReceived adds a normalized item name to the received set.
// Returns true if the set changed.
func (s *Student) MarkItemReceived(itemName string) bool {
	normalized := NormalizeItemName(itemName)
	if normalized == "" {
		return false
	}
	for _, existing := range s.ReceivedItems {
		if existing == normalized {
			return false
		}
	}
	s.ReceivedItems = append(s.ReceivedItems, normalized)
	s.UpdatedAt = time.Now()
	return true
}

// HasReceived reports whether the student already received the item
func (s *Student) HasReceived(itemName string) bool {
	normalized := NormalizeItemName(itemName)
	for _, existing := range s.ReceivedItems {
		if existing == normalized {
			return true
		}
	}
	return false
}
