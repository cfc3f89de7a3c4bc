package models

import "time"

// GitHubStats represents the aggregated all-time statistics for a GitHub user.
// It merges the user's profile with the line change totals summed across
// every calendar-year range of their account history.
type GitHubStats struct {
	Login               string    `json:"login"`
	Name                string    `json:"name,omitempty"`
	AvatarURL           string    `json:"avatar_url,omitempty"`
	Bio                 string    `json:"bio,omitempty"`
	Location            string    `json:"location,omitempty"`
	Company             string    `json:"company,omitempty"`
	Email               string    `json:"email,omitempty"`
	WebsiteURL          string    `json:"website_url,omitempty"`
	URL                 string    `json:"url,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	Repositories        int       `json:"repositories"`
	PublicRepositories  int       `json:"public_repositories"`
	PrivateRepositories int       `json:"private_repositories"`
	TotalAdditions      int       `json:"total_additions"`
	TotalDeletions      int       `json:"total_deletions"`
	MergedPullRequests  int       `json:"merged_pull_requests"`
	TotalCommits        int       `json:"total_commits"`
}

// NewGitHubStats builds the final statistics record from a profile and the
// per-range totals. Summation is order independent.
func NewGitHubStats(profile *UserProfile, ranges []RangeStats) *GitHubStats {
	stats := &GitHubStats{
		Login:               profile.Login,
		Name:                profile.Name,
		AvatarURL:           profile.AvatarURL,
		Bio:                 profile.Bio,
		Location:            profile.Location,
		Company:             profile.Company,
		Email:               profile.Email,
		WebsiteURL:          profile.WebsiteURL,
		URL:                 profile.URL,
		CreatedAt:           profile.CreatedAt,
		Repositories:        profile.Repositories,
		PublicRepositories:  profile.PublicRepositories,
		PrivateRepositories: profile.PrivateRepositories,
		MergedPullRequests:  profile.MergedPullRequests,
		TotalCommits:        profile.TotalCommits(),
	}

	for _, r := range ranges {
		stats.TotalAdditions += r.Additions
		stats.TotalDeletions += r.Deletions
	}

	return stats
}
