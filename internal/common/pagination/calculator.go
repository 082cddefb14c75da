package pagination

// CalculateOffset calculates the slice offset for a page. Page numbers are
// 1-based, so page 1 has offset 0.
func CalculateOffset(page, limit int) int {
	return (page - 1) * limit
}

// CalculateTotalPages calculates the total number of pages using ceiling
// division. A total of zero yields zero pages: an empty result set has no
// pages to navigate.
func CalculateTotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
