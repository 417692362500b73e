package scorecache

import (
	"context"
	"time"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/scoring"
	"github.com/wonny/factscore/pkg/logger"
	"github.com/wonny/factscore/pkg/redis"
)

const dateLayout = "2006-01-02"

// Scorer computes single-company scorecards
type Scorer interface {
	ScoreValue(ctx context.Context, companyID int64, asOf time.Time) (*contracts.ValueScore, error)
	ScoreMoat(ctx context.Context, companyID int64, asOf time.Time) (*contracts.MoatScore, error)
}

// CachedScorer serves scorecards from Redis and falls through to the next
// Scorer on a miss. Cache failures are logged, never returned.
type CachedScorer struct {
	next   Scorer
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// New creates a new cached scorer
func New(next Scorer, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedScorer {
	if ttl <= 0 {
		ttl = redis.TTLDaily
	}
	return &CachedScorer{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithComponent("score_cache"),
	}
}

// ScoreValue returns the cached value scorecard or computes and stores it
func (c *CachedScorer) ScoreValue(ctx context.Context, companyID int64, asOf time.Time) (*contracts.ValueScore, error) {
	key := redis.ScoreKey(string(contracts.KindValue), companyID, asOf.Format(dateLayout))

	var cached contracts.ValueScore
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	score, err := c.next.ScoreValue(ctx, companyID, asOf)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, score)
	return score, nil
}

// ScoreMoat returns the cached moat scorecard or computes and stores it
func (c *CachedScorer) ScoreMoat(ctx context.Context, companyID int64, asOf time.Time) (*contracts.MoatScore, error) {
	key := redis.ScoreKey(string(contracts.KindMoat), companyID, asOf.Format(dateLayout))

	var cached contracts.MoatScore
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	score, err := c.next.ScoreMoat(ctx, companyID, asOf)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, score)
	return score, nil
}

// Warm stores every scorecard a batch produced under asOf
func (c *CachedScorer) Warm(ctx context.Context, result *scoring.BatchResult, asOf time.Time) int {
	date := asOf.Format(dateLayout)
	stored := 0
	for id, score := range result.Value {
		if c.store(ctx, redis.ScoreKey(string(contracts.KindValue), id, date), score) {
			stored++
		}
	}
	for id, score := range result.Moat {
		if c.store(ctx, redis.ScoreKey(string(contracts.KindMoat), id, date), score) {
			stored++
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"kind":   result.Kind,
		"as_of":  date,
		"stored": stored,
	}).Info("Score cache warmed")
	return stored
}

// Invalidate drops every cached scorecard of a kind
func (c *CachedScorer) Invalidate(ctx context.Context, kind contracts.ScoreKind) (int, error) {
	deleted, err := c.cache.DeletePattern(ctx, redis.ScorePattern(string(kind)))
	if err != nil {
		return deleted, err
	}

	c.logger.WithFields(map[string]interface{}{
		"kind":    kind,
		"deleted": deleted,
	}).Info("Score cache invalidated")
	return deleted, nil
}

func (c *CachedScorer) lookup(ctx context.Context, key string, dest interface{}) bool {
	found, err := c.cache.Get(ctx, key, dest)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Score cache read failed")
		return false
	}
	return found
}

func (c *CachedScorer) store(ctx context.Context, key string, value interface{}) bool {
	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Score cache write failed")
		return false
	}
	return true
}
