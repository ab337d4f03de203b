package dto

// OkResponse is the body of the approval toggling endpoints
type OkResponse struct {
	Ok bool `json:"ok" example:"true"`
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// PaginationInfo describes one page of a listing
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// Pages returns 1..TotalPages, used to render page links
func (p PaginationInfo) Pages() []int {
	pages := make([]int, 0, p.TotalPages)
	for i := 1; i <= p.TotalPages; i++ {
		pages = append(pages, i)
	}
	return pages
}

// HasPrevious reports whether a previous page exists
func (p PaginationInfo) HasPrevious() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a next page exists
func (p PaginationInfo) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// Page is one page of items plus its pagination info
type Page[T any] struct {
	Items      []T            `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}
