package pagination

// Metadata is the pagination envelope included in every API response, for the
// cached search path and the pass-through headlines path alike. TotalResults
// is the reconciled total (which may differ from what the upstream reported);
// ActualResults is the number of items on the current page.
type Metadata struct {
	CurrentPage     int  `json:"currentPage"`
	Limit           int  `json:"limit"`
	TotalResults    int  `json:"totalResults"`
	ActualResults   int  `json:"actualResults"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	NextPage        *int `json:"nextPage"`
	PreviousPage    *int `json:"previousPage"`
}

// Build constructs internally-consistent metadata for a page. The consistency
// properties hold by construction: totalPages == ceil(total/limit) when total
// is positive, hasPreviousPage iff page > 1, and the next/previous pointers
// are set iff the corresponding flag is true.
func Build(page, limit, totalResults, actualResults int, hasNextPage bool) Metadata {
	m := Metadata{
		CurrentPage:     page,
		Limit:           limit,
		TotalResults:    totalResults,
		ActualResults:   actualResults,
		TotalPages:      CalculateTotalPages(totalResults, limit),
		HasNextPage:     hasNextPage,
		HasPreviousPage: page > 1,
	}
	if m.HasNextPage {
		next := page + 1
		m.NextPage = &next
	}
	if m.HasPreviousPage {
		prev := page - 1
		m.PreviousPage = &prev
	}
	return m
}
