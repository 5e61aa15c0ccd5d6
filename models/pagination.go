package models

import (
	"context"

	"github.com/RichardToddFidelis/reporting-backend/utils"
	"gorm.io/gorm"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

type PaginatedResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// TotalPages is ceil(total/perPage); an empty collection still has one
// (empty) page so that page=1 is always valid.
func TotalPages(total int64, perPage int) int {
	if total <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// Paginate slices the query into a page ordered by id.
// An out-of-range page is a validation error, not a clamped result.
func Paginate[T any](ctx context.Context, query *gorm.DB, page, perPage int) (*PaginatedResult[*T], error) {
	if perPage < 1 {
		return nil, utils.Validationf("Invalid per_page value: %d", perPage)
	}
	if page < 1 {
		return nil, utils.Validationf("Invalid page number: %d", page)
	}

	base := query.WithContext(ctx).Session(&gorm.Session{})

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	totalPages := TotalPages(total, perPage)
	if page > totalPages {
		return nil, utils.Validationf("Invalid page number: %d", page)
	}

	var items []*T
	if err := base.Session(&gorm.Session{}).
		Order("id").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &PaginatedResult[*T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}
