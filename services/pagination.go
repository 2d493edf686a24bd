package services

import "strconv"

// PostsPerPage is the fixed window size for every paginated view.
const PostsPerPage = 10

// Page is one fixed-size window of an ordered collection plus paging
// metadata. It is built from a snapshot slice, so concurrent writers cannot
// shift items under a reader mid-render.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Number      int  `json:"number"`
	TotalPages  int  `json:"total_pages"`
	Total       int  `json:"total"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Paginate slices an ordered collection into 1-based pages of PostsPerPage
// items. Non-numeric or below-range page requests fall back to page 1,
// above-range requests to the last page, never an error.
func Paginate[T any](items []T, pageParam string) Page[T] {
	total := len(items)
	totalPages := (total + PostsPerPage - 1) / PostsPerPage
	if totalPages == 0 {
		totalPages = 1
	}

	number, err := strconv.Atoi(pageParam)
	if err != nil || number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * PostsPerPage
	if start > total {
		start = total
	}
	end := start + PostsPerPage
	if end > total {
		end = total
	}

	return Page[T]{
		Items:       items[start:end],
		Number:      number,
		TotalPages:  totalPages,
		Total:       total,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
}
