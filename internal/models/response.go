package models

import (
	"time"
)

// Pagination limits for list endpoints.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 50
	MaxPageSize       = 100
)

// APIResponse is the envelope every HTTP response is wrapped in.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Errors    []string    `json:"errors,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// SuccessResponse wraps data. An empty message becomes "Success".
func SuccessResponse(data interface{}, message string) APIResponse {
	if message == "" {
		message = "Success"
	}
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// ErrorResponse builds a failed envelope. Without explicit errors the
// message itself is the only entry.
func ErrorResponse(message string, errs ...string) APIResponse {
	if len(errs) == 0 {
		errs = []string{message}
	}
	return APIResponse{
		Success:   false,
		Message:   message,
		Errors:    errs,
		Timestamp: time.Now().UTC(),
	}
}

// PagedResponse is one page of a larger result.
type PagedResponse[T any] struct {
	Items           []T  `json:"items"`
	PageNumber      int  `json:"page_number"`
	PageSize        int  `json:"page_size"`
	TotalCount      int  `json:"total_count"`
	TotalPages      int  `json:"total_pages"`
	HasPreviousPage bool `json:"has_previous_page"`
	HasNextPage     bool `json:"has_next_page"`
}

// NewPagedResponse fills the derived page counters.
func NewPagedResponse[T any](items []T, page PaginationParams, totalCount int) PagedResponse[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if page.PageSize > 0 {
		totalPages = (totalCount + page.PageSize - 1) / page.PageSize
	}
	return PagedResponse[T]{
		Items:           items,
		PageNumber:      page.PageNumber,
		PageSize:        page.PageSize,
		TotalCount:      totalCount,
		TotalPages:      totalPages,
		HasPreviousPage: page.PageNumber > 1,
		HasNextPage:     page.PageNumber < totalPages,
	}
}

// PaginationParams selects one page of a list.
type PaginationParams struct {
	PageNumber int
	PageSize   int
}

// NewPaginationParams applies defaults and caps the page size.
func NewPaginationParams(pageNumber, pageSize int) PaginationParams {
	if pageNumber < 1 {
		pageNumber = DefaultPageNumber
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return PaginationParams{PageNumber: pageNumber, PageSize: pageSize}
}

// Offset is the number of rows to skip.
func (p PaginationParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
