package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alimgiray/ghstats/internal/github"
	"github.com/alimgiray/ghstats/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRanges(t *testing.T) {
	testCases := []struct {
		name      string
		createdAt time.Time
		now       time.Time
		expected  []string
	}{
		{
			name:      "Multi year account",
			createdAt: time.Date(2016, 5, 10, 0, 0, 0, 0, time.UTC),
			now:       time.Date(2019, 2, 2, 0, 0, 0, 0, time.UTC),
			expected: []string{
				"2016-01-01..2016-12-31",
				"2017-01-01..2017-12-31",
				"2018-01-01..2018-12-31",
				"2019-01-01..2019-12-31",
			},
		},
		{
			name:      "Account created this year",
			createdAt: time.Date(2021, 8, 1, 0, 0, 0, 0, time.UTC),
			now:       time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC),
			expected:  []string{"2021-01-01..2021-12-31"},
		},
		{
			name:      "Creation on new year's eve",
			createdAt: time.Date(2019, 12, 31, 23, 59, 59, 0, time.UTC),
			now:       time.Date(2020, 1, 1, 0, 0, 1, 0, time.UTC),
			expected:  []string{"2019-01-01..2019-12-31", "2020-01-01..2020-12-31"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ranges := planRanges(tc.createdAt, tc.now)

			require.Len(t, ranges, len(tc.expected))
			for i, r := range ranges {
				assert.Equal(t, tc.expected[i], r.Filter())
			}
		})
	}
}

type fakeGitHub struct {
	server       *httptest.Server
	searchCalls  atomic.Int64
	profileCalls atomic.Int64

	createdAt time.Time
	// searchRespond builds the search response for a query/cursor pair.
	// When nil, every range answers with one page of {10, 5}.
	searchRespond func(query, cursor string, w http.ResponseWriter)
	// profileRespond overrides the default profile response when set.
	profileRespond func(w http.ResponseWriter)
}

func newFakeGitHub(t *testing.T, createdAt time.Time) *fakeGitHub {
	t.Helper()

	f := &fakeGitHub{createdAt: createdAt}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if strings.Contains(req.Query, "user(login:") {
			f.profileCalls.Add(1)
			if f.profileRespond != nil {
				f.profileRespond(w)
				return
			}
			fmt.Fprintf(w, `{"data":{"user":{
				"login":"testuser",
				"name":"Test User",
				"createdAt":%q,
				"repositories":{"totalCount":10},
				"publicRepositories":{"totalCount":8},
				"privateRepositories":{"totalCount":2},
				"pullRequests":{"totalCount":25},
				"contributionsCollection":{"totalCommitContributions":300,"restrictedContributionsCount":50}
			}}}`, f.createdAt.Format(time.RFC3339))
			return
		}

		f.searchCalls.Add(1)
		query, _ := req.Variables["query"].(string)
		cursor, _ := req.Variables["cursor"].(string)
		if f.searchRespond != nil {
			f.searchRespond(query, cursor, w)
			return
		}
		fmt.Fprint(w, `{"data":{"search":{
			"pageInfo":{"hasNextPage":false,"endCursor":""},
			"nodes":[{"additions":10,"deletions":5}]
		}}}`)
	}))
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakeGitHub) service() *StatsService {
	return NewStatsService(f.server.URL, 10*time.Second)
}

func TestGetStatsUnconfigured(t *testing.T) {
	fake := newFakeGitHub(t, time.Now())
	service := fake.service()

	stats, err := service.GetStats(context.Background(), "", "token")
	assert.NoError(t, err)
	assert.Nil(t, stats)

	stats, err = service.GetStats(context.Background(), "testuser", "")
	assert.NoError(t, err)
	assert.Nil(t, stats)

	// Not configured means no HTTP traffic at all
	assert.EqualValues(t, 0, fake.profileCalls.Load())
	assert.EqualValues(t, 0, fake.searchCalls.Load())
}

func TestGetStatsAggregatesAllRanges(t *testing.T) {
	createdAt := time.Now().UTC().AddDate(-3, 0, 0)
	expectedRanges := time.Now().Year() - createdAt.Year() + 1

	fake := newFakeGitHub(t, createdAt)
	service := fake.service()

	stats, err := service.GetStats(context.Background(), "testuser", "token")
	require.NoError(t, err)
	require.NotNil(t, stats)

	// One single-page search per calendar year of the account's history
	assert.EqualValues(t, 1, fake.profileCalls.Load())
	assert.EqualValues(t, expectedRanges, fake.searchCalls.Load())

	assert.Equal(t, expectedRanges*10, stats.TotalAdditions)
	assert.Equal(t, expectedRanges*5, stats.TotalDeletions)

	// Profile fields survive the merge
	assert.Equal(t, "testuser", stats.Login)
	assert.Equal(t, 25, stats.MergedPullRequests)
	assert.Equal(t, 350, stats.TotalCommits)
	assert.Equal(t, 10, stats.Repositories)
	assert.Equal(t, 8, stats.PublicRepositories)
	assert.Equal(t, 2, stats.PrivateRepositories)
}

func TestAggregateRangePagination(t *testing.T) {
	var cursors []string
	fake := newFakeGitHub(t, time.Now())
	fake.searchRespond = func(_, cursor string, w http.ResponseWriter) {
		cursors = append(cursors, cursor)
		if cursor == "" {
			fmt.Fprint(w, `{"data":{"search":{
				"pageInfo":{"hasNextPage":true,"endCursor":"c1"},
				"nodes":[{"additions":10,"deletions":5}]
			}}}`)
			return
		}
		fmt.Fprint(w, `{"data":{"search":{
			"pageInfo":{"hasNextPage":false,"endCursor":""},
			"nodes":[{"additions":20,"deletions":10}]
		}}}`)
	}

	client := github.NewClient(fake.server.URL, "token")
	stats, err := aggregateRange(context.Background(), client, "testuser", models.NewYearRange(2020))
	require.NoError(t, err)

	assert.Equal(t, 30, stats.Additions)
	assert.Equal(t, 15, stats.Deletions)

	// Second fetch must continue from the first page's cursor
	assert.Equal(t, []string{"", "c1"}, cursors)
}

func TestAggregateRangeBuildsSearchQuery(t *testing.T) {
	var gotQuery string
	fake := newFakeGitHub(t, time.Now())
	fake.searchRespond = func(query, _ string, w http.ResponseWriter) {
		gotQuery = query
		fmt.Fprint(w, `{"data":{"search":{"pageInfo":{"hasNextPage":false,"endCursor":""},"nodes":[]}}}`)
	}

	client := github.NewClient(fake.server.URL, "token")
	_, err := aggregateRange(context.Background(), client, "testuser", models.NewYearRange(2019))
	require.NoError(t, err)

	assert.Equal(t, "author:testuser is:pr is:merged created:2019-01-01..2019-12-31", gotQuery)
}

func TestGetStatsProfileFailureAbortsRun(t *testing.T) {
	fake := newFakeGitHub(t, time.Now())
	fake.profileRespond = func(w http.ResponseWriter) {
		fmt.Fprint(w, `{"data":null,"errors":[{"message":"Could not resolve to a User"}]}`)
	}
	service := fake.service()

	stats, err := service.GetStats(context.Background(), "ghost", "token")
	assert.Nil(t, stats)

	var gqlErr *github.GraphQLError
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, "Could not resolve to a User", gqlErr.Message)

	// The fan-out never started
	assert.EqualValues(t, 0, fake.searchCalls.Load())
}

func TestGetStatsFailsWhenAnyRangeFails(t *testing.T) {
	createdAt := time.Now().UTC().AddDate(-4, 0, 0)
	failingYear := fmt.Sprintf("%d", createdAt.Year()+1)

	fake := newFakeGitHub(t, createdAt)
	fake.searchRespond = func(query, _ string, w http.ResponseWriter) {
		if strings.Contains(query, "created:"+failingYear) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `{"data":{"search":{
			"pageInfo":{"hasNextPage":false,"endCursor":""},
			"nodes":[{"additions":1,"deletions":1}]
		}}}`)
	}
	service := fake.service()

	stats, err := service.GetStats(context.Background(), "testuser", "token")

	// No partial aggregation: the failing range's classified error wins
	assert.Nil(t, stats)
	assert.ErrorIs(t, err, github.ErrRateLimited)
}

func TestGetStatsDeadlineSurfacesAsNetworkError(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		fmt.Fprint(w, `{"data":{}}`)
	}))
	defer slow.Close()

	service := NewStatsService(slow.URL, 50*time.Millisecond)
	stats, err := service.GetStats(context.Background(), "testuser", "token")

	assert.Nil(t, stats)
	var netErr *github.NetworkError
	assert.ErrorAs(t, err, &netErr)
}
