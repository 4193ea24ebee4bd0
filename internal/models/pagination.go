package models

// PaginationMeta mirrors the meta block of paginated list responses.
type PaginationMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// NewPaginationMeta computes pagination metadata for a page of results.
// LastPage is never below 1, even for an empty result set.
func NewPaginationMeta(page, perPage, total int) *PaginationMeta {
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	return &PaginationMeta{
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
}
