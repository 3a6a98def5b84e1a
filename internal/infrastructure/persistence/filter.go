package persistence

import (
	"strings"

	"github.com/campusstore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies ordering, pagination and simple equality filters
// to a query
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyFilterWithoutPagination(query, filter)

	if filter.OrderBy != "" {
		direction := "asc"
		if strings.EqualFold(filter.OrderDir, "desc") {
			direction = "desc"
		}
		query = query.Order(filter.OrderBy + " " + direction)
	}

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies only the equality filters, for
// count queries
func applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for column, value := range filter.Filters {
		query = query.Where(column+" = ?", value)
	}
	return query
}
