package models

import "time"

// UserProfile represents the identity and metadata of a GitHub user.
// It is fetched once per aggregation run and anchors date range planning
// through CreatedAt; it is never persisted.
type UserProfile struct {
	Login                   string    `json:"login"`
	Name                    string    `json:"name"`
	AvatarURL               string    `json:"avatar_url"`
	Bio                     string    `json:"bio"`
	Location                string    `json:"location"`
	Company                 string    `json:"company"`
	Email                   string    `json:"email"`
	WebsiteURL              string    `json:"website_url"`
	URL                     string    `json:"url"`
	CreatedAt               time.Time `json:"created_at"`
	Repositories            int       `json:"repositories"`
	PublicRepositories      int       `json:"public_repositories"`
	PrivateRepositories     int       `json:"private_repositories"`
	MergedPullRequests      int       `json:"merged_pull_requests"`
	CommitContributions     int       `json:"commit_contributions"`
	RestrictedContributions int       `json:"restricted_contributions"`
}

// TotalCommits returns the user's commit contributions including those made
// in private repositories the token cannot see directly.
func (p *UserProfile) TotalCommits() int {
	return p.CommitContributions + p.RestrictedContributions
}
