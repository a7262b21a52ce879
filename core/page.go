package core

// PageSize is the number of records per listing page.
const PageSize = 10

// Pagination describes the position of a page in a listing.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = PageSize
	}
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	if page < 1 {
		page = 1
	}
	return Pagination{CurrentPage: page, LastPage: lastPage, PerPage: perPage, Total: total}
}

// PageRequest holds the requested page number (1 based).
type PageRequest struct {
	Page int `query:"page"`
}

func (pr PageRequest) Number() int {
	if pr.Page < 1 {
		return 1
	}
	return pr.Page
}

func (pr PageRequest) Limit() int { return PageSize }

func (pr PageRequest) Offset() int { return (pr.Number() - 1) * PageSize }

// Paginate returns the bounds of the requested page within a slice of n elements.
func (pr PageRequest) Paginate(n int) (start, end int) {
	start = pr.Offset()
	if start > n {
		start = n
	}
	end = start + pr.Limit()
	if end > n {
		end = n
	}
	return start, end
}
