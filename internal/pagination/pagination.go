// Package pagination splits ordered record slices into fixed-size pages.
package pagination

import "strconv"

// DefaultPageSize is the number of posts shown per listing page.
const DefaultPageSize = 10

// Page is one slice of an ordered sequence plus the metadata listing
// templates need to render pager controls.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Number      int  `json:"number"`
	TotalPages  int  `json:"total_pages"`
	Count       int  `json:"count"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Paginate slices items into pages of pageSize and returns the page named by
// rawPage. A missing, non-numeric or sub-1 page number yields page 1; a page
// beyond the last clamps to the last page. An empty input yields a single
// empty page so listing pages always have something to render.
func Paginate[T any](items []T, pageSize int, rawPage string) Page[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	// Nil slices from empty listings still render as an empty items array.
	if items == nil {
		items = []T{}
	}

	count := len(items)
	totalPages := (count + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	number, err := strconv.Atoi(rawPage)
	if err != nil || number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * pageSize
	end := start + pageSize
	if start > count {
		start = count
	}
	if end > count {
		end = count
	}

	return Page[T]{
		Items:       items[start:end],
		Number:      number,
		TotalPages:  totalPages,
		Count:       count,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
}
