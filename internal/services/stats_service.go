package services

import (
	"context"
	"fmt"
	"time"

	"github.com/alimgiray/ghstats/internal/github"
	"github.com/alimgiray/ghstats/internal/models"
	"github.com/alimgiray/ghstats/pkg/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// StatsService aggregates a GitHub user's all-time pull request line change
// statistics. Every call runs the full pipeline from scratch: one profile
// fetch, then one concurrent paginated search per calendar year of the
// account's history.
type StatsService struct {
	endpoint string
	timeout  time.Duration
}

// NewStatsService creates a stats service talking to the given GraphQL
// endpoint. The timeout bounds one whole aggregation run; on expiry all
// in-flight range fetches are cancelled.
func NewStatsService(endpoint string, timeout time.Duration) *StatsService {
	return &StatsService{
		endpoint: endpoint,
		timeout:  timeout,
	}
}

// GetStats fetches and aggregates statistics for the given user. A missing
// username or token means the feature is not configured: the call returns
// (nil, nil) without issuing any request. If any of the concurrent range
// aggregations fails, the whole call fails with the first observed error and
// the remaining ranges are cancelled.
func (s *StatsService) GetStats(ctx context.Context, username, token string) (*models.GitHubStats, error) {
	if username == "" || token == "" {
		logger.Debug("GitHub stats not configured, skipping aggregation")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	client := github.NewClient(s.endpoint, token)
	start := time.Now()

	profile, err := client.FetchUserProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	ranges := planRanges(profile.CreatedAt, time.Now())
	logger.WithFields(logrus.Fields{
		"username": username,
		"ranges":   len(ranges),
	}).Debug("Planned date ranges for aggregation")

	// One goroutine per calendar year; each owns its own accumulator slot.
	// The first failure cancels the group context and aborts the siblings.
	results := make([]models.RangeStats, len(ranges))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		i, r := i, r
		g.Go(func() error {
			stats, err := aggregateRange(ctx, client, username, r)
			if err != nil {
				return err
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := models.NewGitHubStats(profile, results)
	logger.WithFields(logrus.Fields{
		"username":    username,
		"ranges":      len(ranges),
		"additions":   stats.TotalAdditions,
		"deletions":   stats.TotalDeletions,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Aggregated GitHub statistics")

	return stats, nil
}

// planRanges computes the non-overlapping calendar-year ranges covering the
// account's creation year through the current year. It always returns at
// least one range.
func planRanges(createdAt, now time.Time) []models.DateRange {
	startYear := createdAt.Year()
	endYear := now.Year()

	ranges := make([]models.DateRange, 0, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		ranges = append(ranges, models.NewYearRange(year))
	}
	return ranges
}

// aggregateRange folds every page of merged pull requests in one date range
// into a line change total. Pages are fetched strictly in cursor order; a
// failure on any page aborts the whole range.
func aggregateRange(ctx context.Context, client *github.Client, username string, r models.DateRange) (models.RangeStats, error) {
	query := fmt.Sprintf("author:%s is:pr is:merged created:%s", username, r.Filter())

	var stats models.RangeStats
	cursor := ""
	pages := 0
	for {
		page, err := client.SearchPullRequests(ctx, query, cursor)
		if err != nil {
			return models.RangeStats{}, err
		}
		stats.Add(page)
		pages++

		if !page.HasNextPage {
			break
		}
		cursor = page.EndCursor
	}

	logger.WithFields(logrus.Fields{
		"range":     r.Filter(),
		"pages":     pages,
		"additions": stats.Additions,
		"deletions": stats.Deletions,
	}).Debug("Aggregated date range")

	return stats, nil
}
