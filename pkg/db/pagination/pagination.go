package pagination

import "gorm.io/gorm"

// Pagination carries page-number pagination inputs bound from the query string.
type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// PageInfo describes the page returned to the caller.
type PageInfo struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	Total       int64 `json:"total"`
}

// Normalize clamps the pagination inputs into [1, maxPageSize] using
// defaultPageSize when page size is absent.
func (p Pagination) Normalize(defaultPageSize, maxPageSize int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if maxPageSize > 0 && p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Scope applies limit/offset to a gorm statement.
func (p Pagination) Scope() func(*gorm.DB) *gorm.DB {
	return func(stmt *gorm.DB) *gorm.DB {
		return stmt.Offset(p.Offset()).Limit(p.PageSize)
	}
}

// BuildPageInfo derives page metadata from a total row count.
func BuildPageInfo(p Pagination, total int64) PageInfo {
	lastPage := 1
	if p.PageSize > 0 {
		lastPage = int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	if lastPage < 1 {
		lastPage = 1
	}
	return PageInfo{
		CurrentPage: p.Page,
		LastPage:    lastPage,
		Total:       total,
	}
}
