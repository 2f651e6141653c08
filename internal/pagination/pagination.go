package pagination

// TotalPages returns ceil(total/perPage). It is 0 for an empty list.
func TotalPages(total, perPage int) int {
	if perPage < 1 || total < 1 {
		return 0
	}

	pages := total / perPage
	if total%perPage > 0 {
		pages++
	}
	return pages
}

// Pager tracks the current page of a list whose length may change between calls.
// The page always stays within [1, max(TotalPages, 1)]. A Pager is not safe for
// concurrent use.
type Pager struct {
	page    int
	perPage int
}

// NewPager creates a pager positioned on page 1.
func NewPager(perPage int) *Pager {
	if perPage < 1 {
		perPage = 1
	}
	return &Pager{page: 1, perPage: perPage}
}

// Page returns the current 1-based page.
func (p *Pager) Page() int {
	return p.page
}

// PerPage returns the page size.
func (p *Pager) PerPage() int {
	return p.perPage
}

// Next moves forward one page, staying on the last page of a list of total items.
func (p *Pager) Next(total int) {
	p.page = min(p.page+1, lastPage(total, p.perPage))
}

// Previous moves back one page, staying on page 1.
func (p *Pager) Previous() {
	p.page = max(p.page-1, 1)
}

// Reset returns to page 1.
func (p *Pager) Reset() {
	p.page = 1
}

// Clamp pulls the current page back into range after the list shrank to total items.
func (p *Pager) Clamp(total int) {
	p.page = min(max(p.page, 1), lastPage(total, p.perPage))
}

func lastPage(total, perPage int) int {
	return max(TotalPages(total, perPage), 1)
}

// Result is one page of a list.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"totalCount"`
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewResult cuts the pager's current page out of items.
func NewResult[T any](items []T, p *Pager) Result[T] {
	totalPages := TotalPages(len(items), p.perPage)

	start := min((p.page-1)*p.perPage, len(items))
	end := min(start+p.perPage, len(items))

	data := make([]T, end-start)
	copy(data, items[start:end])

	return Result[T]{
		Data:       data,
		TotalCount: len(items),
		Page:       p.page,
		PerPage:    p.perPage,
		TotalPages: totalPages,
		HasNext:    p.page < totalPages,
		HasPrev:    p.page > 1,
	}
}
