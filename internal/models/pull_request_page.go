package models

// PullRequestChange holds the line change counts of a single merged pull request.
type PullRequestChange struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// PullRequestPage is one page of a paginated pull request search. EndCursor
// is only meaningful while HasNextPage is true.
type PullRequestPage struct {
	Nodes       []PullRequestChange `json:"nodes"`
	HasNextPage bool                `json:"has_next_page"`
	EndCursor   string              `json:"end_cursor"`
}

// RangeStats accumulates line change totals for one date range.
type RangeStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// Add folds one page of pull requests into the running totals.
func (s *RangeStats) Add(page *PullRequestPage) {
	for _, pr := range page.Nodes {
		s.Additions += pr.Additions
		s.Deletions += pr.Deletions
	}
}
