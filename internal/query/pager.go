package query

import "github.com/lamnguyen-dev/educenter-api/internal/models"

// Filter describes the list criteria shared by consultation and student
// listings.
type Filter struct {
	Status   string
	Search   string
	CourseID string
	Sort     string
}

// Pager tracks the current page of a filtered listing. Changing the filter
// or the page size resets the page to 1 so a now-invalid page is never
// silently re-requested. The pager never clamps on its own: out-of-range
// pages are issued as-is and come back with empty items and the true
// total/pages, after which the caller may Clamp and re-issue.
type Pager struct {
	filter Filter
	page   int
	limit  int
}

// NewPager builds a pager starting at page 1.
func NewPager(limit int) *Pager {
	if limit < 1 {
		limit = 20
	}
	return &Pager{page: 1, limit: limit}
}

// Filter returns the current filter.
func (p *Pager) Filter() Filter { return p.filter }

// Page returns the current page.
func (p *Pager) Page() int { return p.page }

// Limit returns the current page size.
func (p *Pager) Limit() int { return p.limit }

// SetFilter replaces the filter and resets the page to 1.
func (p *Pager) SetFilter(f Filter) {
	if f == p.filter {
		return
	}
	p.filter = f
	p.page = 1
}

// SetLimit replaces the page size and resets the page to 1.
func (p *Pager) SetLimit(limit int) {
	if limit < 1 || limit == p.limit {
		return
	}
	p.limit = limit
	p.page = 1
}

// SetPage moves to the requested page. Pages below 1 snap to 1.
func (p *Pager) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	p.page = page
}

// Clamp pulls the current page back into [1, pages] using the page count
// reported by the last response.
func (p *Pager) Clamp(pages int) {
	if pages < 1 {
		pages = 1
	}
	if p.page > pages {
		p.page = pages
	}
	if p.page < 1 {
		p.page = 1
	}
}

// Pages computes the page count for a total and limit, never less than 1.
func Pages(total, limit int) int {
	return models.Pages(total, limit)
}
