package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alimgiray/ghstats/internal/models"
	"golang.org/x/oauth2"
)

// DefaultEndpoint is GitHub's GraphQL API endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// Client issues authenticated GraphQL requests against a single endpoint.
// It performs no retries: a failure is terminal for the call that issued it.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint. The token is attached
// to every request as a bearer Authorization header.
func NewClient(endpoint, token string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})

	return &Client{
		endpoint:   endpoint,
		httpClient: oauth2.NewClient(context.Background(), tokenSource),
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Post issues one GraphQL request and returns the raw data payload. HTTP and
// GraphQL failure shapes are classified into the package's error taxonomy;
// this is the only place that classification happens.
func (c *Client) Post(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, classify(resp.StatusCode, "")
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to decode response body: %w", err)}
	}

	// Only the first error is surfaced, later ones are dropped.
	if len(envelope.Errors) > 0 {
		return nil, classify(resp.StatusCode, envelope.Errors[0].Message)
	}

	return envelope.Data, nil
}

type totalCount struct {
	TotalCount int `json:"totalCount"`
}

type userProfileData struct {
	User *struct {
		Login                   string     `json:"login"`
		Name                    string     `json:"name"`
		AvatarURL               string     `json:"avatarUrl"`
		Bio                     string     `json:"bio"`
		Location                string     `json:"location"`
		Company                 string     `json:"company"`
		Email                   string     `json:"email"`
		WebsiteURL              string     `json:"websiteUrl"`
		URL                     string     `json:"url"`
		CreatedAt               time.Time  `json:"createdAt"`
		Repositories            totalCount `json:"repositories"`
		PublicRepositories      totalCount `json:"publicRepositories"`
		PrivateRepositories     totalCount `json:"privateRepositories"`
		PullRequests            totalCount `json:"pullRequests"`
		ContributionsCollection struct {
			TotalCommitContributions     int `json:"totalCommitContributions"`
			RestrictedContributionsCount int `json:"restrictedContributionsCount"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

// FetchUserProfile retrieves the profile of the given user.
func (c *Client) FetchUserProfile(ctx context.Context, login string) (*models.UserProfile, error) {
	data, err := c.Post(ctx, userProfileQuery, map[string]any{"login": login})
	if err != nil {
		return nil, err
	}

	var payload userProfileData
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to decode user profile: %w", err)}
	}
	if payload.User == nil {
		return nil, &GraphQLError{Message: fmt.Sprintf("could not resolve user %q", login)}
	}

	user := payload.User
	return &models.UserProfile{
		Login:                   user.Login,
		Name:                    user.Name,
		AvatarURL:               user.AvatarURL,
		Bio:                     user.Bio,
		Location:                user.Location,
		Company:                 user.Company,
		Email:                   user.Email,
		WebsiteURL:              user.WebsiteURL,
		URL:                     user.URL,
		CreatedAt:               user.CreatedAt,
		Repositories:            user.Repositories.TotalCount,
		PublicRepositories:      user.PublicRepositories.TotalCount,
		PrivateRepositories:     user.PrivateRepositories.TotalCount,
		MergedPullRequests:      user.PullRequests.TotalCount,
		CommitContributions:     user.ContributionsCollection.TotalCommitContributions,
		RestrictedContributions: user.ContributionsCollection.RestrictedContributionsCount,
	}, nil
}

type pullRequestSearchData struct {
	Search struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Nodes []struct {
			Additions int `json:"additions"`
			Deletions int `json:"deletions"`
		} `json:"nodes"`
	} `json:"search"`
}

// SearchPullRequests fetches one page of up to 100 pull requests matching the
// search query. An empty cursor fetches the first page.
func (c *Client) SearchPullRequests(ctx context.Context, query, cursor string) (*models.PullRequestPage, error) {
	variables := map[string]any{"query": query}
	if cursor != "" {
		variables["cursor"] = cursor
	}

	data, err := c.Post(ctx, pullRequestSearchQuery, variables)
	if err != nil {
		return nil, err
	}

	var payload pullRequestSearchData
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to decode search result: %w", err)}
	}

	page := &models.PullRequestPage{
		HasNextPage: payload.Search.PageInfo.HasNextPage,
		EndCursor:   payload.Search.PageInfo.EndCursor,
	}
	for _, node := range payload.Search.Nodes {
		page.Nodes = append(page.Nodes, models.PullRequestChange{
			Additions: node.Additions,
			Deletions: node.Deletions,
		})
	}

	return page, nil
}
