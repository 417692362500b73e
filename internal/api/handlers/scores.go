package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/scoring"
	"github.com/wonny/factscore/pkg/logger"
	"github.com/wonny/factscore/pkg/redis"
)

// BatchRunner runs and records a batch scoring pass
type BatchRunner interface {
	RunBatch(ctx context.Context, kind contracts.ScoreKind, asOf time.Time, trigger string) (*contracts.ScoreRun, *scoring.BatchResult, error)
}

// CacheWarmer refreshes cached scorecards after a batch
type CacheWarmer interface {
	Warm(ctx context.Context, result *scoring.BatchResult, asOf time.Time) int
	Invalidate(ctx context.Context, kind contracts.ScoreKind) (int, error)
}

// Limiter admits or rejects a request against a rate limit
type Limiter interface {
	Allow(ctx context.Context, cfg redis.RateLimitConfig) (bool, int, error)
}

// ScoresHandler serves batch results and triggers batch runs
// ⭐ SSOT: multi-company scoring endpoints live here
type ScoresHandler struct {
	runner       BatchRunner
	runs         contracts.RunRepository
	cache        CacheWarmer
	limiter      Limiter
	runPerMinute int
	logger       *logger.Logger
}

// NewScoresHandler creates a new scores handler. cache and limiter may be nil.
func NewScoresHandler(
	runner BatchRunner,
	runs contracts.RunRepository,
	cache CacheWarmer,
	limiter Limiter,
	runPerMinute int,
	log *logger.Logger,
) *ScoresHandler {
	return &ScoresHandler{
		runner:       runner,
		runs:         runs,
		cache:        cache,
		limiter:      limiter,
		runPerMinute: runPerMinute,
		logger:       log,
	}
}

func kindFromPath(w http.ResponseWriter, r *http.Request) (contracts.ScoreKind, bool) {
	kind, ok := contracts.ParseScoreKind(mux.Vars(r)["kind"])
	if !ok {
		respondError(w, http.StatusBadRequest, "kind must be 'value' or 'moat'")
	}
	return kind, ok
}

// ListSummaries returns the latest batch summaries of a kind
// GET /api/scores/{kind}?limit=50&sort=score
func (h *ScoresHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}

	order := contracts.OrderByScore
	switch r.URL.Query().Get("sort") {
	case "", "score":
	case "years":
		order = contracts.OrderByYears
	default:
		respondError(w, http.StatusBadRequest, "sort must be 'score' or 'years'")
		return
	}

	limit := parseLimit(r, 50, 1000)
	summaries, err := h.runs.LatestSummaries(r.Context(), kind, order, limit)
	if err != nil {
		h.logger.WithError(err).WithField("kind", kind).Error("Failed to get summaries")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve summaries")
		return
	}
	if summaries == nil {
		summaries = []contracts.ScoreSummary{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(summaries),
		"data":    summaries,
	})
}

// GetDistribution returns score statistics of the latest batch of a kind
// GET /api/scores/{kind}/distribution
func (h *ScoresHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}

	// Every summary of the run, not a page of it
	summaries, err := h.runs.LatestSummaries(r.Context(), kind, contracts.OrderByScore, 1_000_000)
	if err != nil {
		h.logger.WithError(err).WithField("kind", kind).Error("Failed to get summaries")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve summaries")
		return
	}

	dist, err := scoring.Summarize(kind, summaries)
	if err != nil {
		h.logger.WithError(err).WithField("kind", kind).Error("Failed to summarize scores")
		respondError(w, http.StatusInternalServerError, "Failed to summarize scores")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    dist,
	})
}

// ListRuns returns recent batch runs
// GET /api/runs?kind=value&limit=20
func (h *ScoresHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	kind := contracts.KindValue
	if s := r.URL.Query().Get("kind"); s != "" {
		var ok bool
		if kind, ok = contracts.ParseScoreKind(s); !ok {
			respondError(w, http.StatusBadRequest, "kind must be 'value' or 'moat'")
			return
		}
	}

	runs, err := h.runs.ListRuns(r.Context(), kind, parseLimit(r, 20, 200))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list runs")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve runs")
		return
	}
	if runs == nil {
		runs = []contracts.ScoreRun{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    runs,
	})
}

// RunBatch scores every company of a kind now
// POST /api/scores/{kind}/run?date=2024-06-30
func (h *ScoresHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, ok := kindFromPath(w, r)
	if !ok {
		return
	}

	asOf, err := parseAsOf(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
		return
	}

	if h.limiter != nil {
		allowed, _, err := h.limiter.Allow(ctx, redis.BatchRunRateLimit(string(kind), h.runPerMinute))
		if err != nil {
			h.logger.WithError(err).Warn("Rate limiter unavailable, admitting request")
		} else if !allowed {
			respondError(w, http.StatusTooManyRequests, "batch run rate limit exceeded")
			return
		}
	}

	h.logger.WithFields(map[string]interface{}{
		"kind":  kind,
		"as_of": asOf.Format(dateLayout),
	}).Info("Batch run triggered")

	run, result, err := h.runner.RunBatch(ctx, kind, asOf, "api")
	if errors.Is(err, context.Canceled) {
		respondError(w, http.StatusServiceUnavailable, "batch run cancelled")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("kind", kind).Error("Batch run failed")
		respondError(w, http.StatusInternalServerError, "Batch run failed")
		return
	}

	warmed := 0
	if h.cache != nil {
		if _, err := h.cache.Invalidate(ctx, kind); err != nil {
			h.logger.WithError(err).Warn("Failed to invalidate score cache")
		}
		warmed = h.cache.Warm(ctx, result, asOf)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    run,
		"skipped": result.Skipped,
		"cached":  warmed,
	})
}
