package domain

// Page is one page of a listing endpoint's results.
type Page[T any] struct {
	Items         []T   `json:"items"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage assembles a Page from a slice and the paging inputs.
func NewPage[T any](items []T, pageNumber, pageSize int, total int64) Page[T] {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page[T]{
		Items:         items,
		PageNumber:    pageNumber,
		PageSize:      pageSize,
		TotalElements: total,
		TotalPages:    pages,
	}
}
