package handlers

import (
	"errors"
	"net/http"

	"github.com/alimgiray/ghstats/internal/github"
	"github.com/alimgiray/ghstats/internal/services"
	"github.com/alimgiray/ghstats/pkg/logger"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService *services.StatsService
	username     string
	token        string
}

func NewStatsHandler(statsService *services.StatsService, username, token string) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		username:     username,
		token:        token,
	}
}

// GetStats runs one full aggregation for the configured user and renders the
// result. An unconfigured service answers 204; every invocation is a fresh
// pipeline run, there is no caching between calls.
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context(), h.username, h.token)
	if err != nil {
		logger.WithError(err).Error("GitHub stats aggregation failed")
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	if stats == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// statusForError maps the aggregation error taxonomy onto response codes.
// The token belongs to the server, so an upstream 401 is our misconfiguration
// rather than the caller's.
func statusForError(err error) int {
	switch {
	case errors.Is(err, github.ErrRateLimited):
		return http.StatusServiceUnavailable
	case errors.Is(err, github.ErrUnauthorized):
		return http.StatusBadGateway
	}

	var gqlErr *github.GraphQLError
	if errors.As(err, &gqlErr) {
		return http.StatusBadGateway
	}

	return http.StatusGatewayTimeout
}
