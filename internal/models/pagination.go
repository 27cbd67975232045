package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Pages computes the page count for a total row count and page size,
// never less than 1.
func Pages(total, limit int) int {
	if limit < 1 {
		limit = 1
	}
	if total <= 0 {
		return 1
	}
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return pages
}

// NewPagination builds pagination metadata for a list response.
func NewPagination(page, limit, total int) *Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return &Pagination{Page: page, Limit: limit, Total: total, Pages: Pages(total, limit)}
}
