package models

import "fmt"

// DateRange is one calendar-year window used to partition the pull request
// search into independently paginated queries.
type DateRange struct {
	Start string `json:"start"` // YYYY-01-01
	End   string `json:"end"`   // YYYY-12-31
}

// NewYearRange creates the full-year range for the given year.
func NewYearRange(year int) DateRange {
	return DateRange{
		Start: fmt.Sprintf("%04d-01-01", year),
		End:   fmt.Sprintf("%04d-12-31", year),
	}
}

// Filter returns the range as a GitHub search date filter fragment,
// e.g. "2021-01-01..2021-12-31". Both bounds are inclusive.
func (r DateRange) Filter() string {
	return r.Start + ".." + r.End
}
