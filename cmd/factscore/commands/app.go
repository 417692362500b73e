package commands

import (
	"fmt"

	"github.com/wonny/factscore/internal/scorecache"
	"github.com/wonny/factscore/internal/scoreconfig"
	"github.com/wonny/factscore/internal/scoring"
	"github.com/wonny/factscore/internal/store"
	"github.com/wonny/factscore/pkg/config"
	"github.com/wonny/factscore/pkg/database"
	"github.com/wonny/factscore/pkg/logger"
	"github.com/wonny/factscore/pkg/redis"
)

// cachePrefix namespaces every Redis key this binary writes
const cachePrefix = "factscore"

// app holds the wired dependencies shared by commands
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *database.DB
	redis     *redis.Client
	rules     *scoreconfig.Config
	rulesHash string

	facts     *store.FactRepository
	prices    *store.PriceRepository
	companies *store.CompanyRepository
	runs      *store.RunRepository

	service *scoring.Service
	scorer  *scorecache.CachedScorer
}

// newApp loads config and connects to Postgres and Redis
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	rules, err := scoreconfig.LoadOrDefault(cfg.Scoring.ThresholdsFile)
	if err != nil {
		return nil, fmt.Errorf("load thresholds: %w", err)
	}
	rulesHash, err := scoreconfig.Hash(rules)
	if err != nil {
		return nil, fmt.Errorf("hash thresholds: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	a := &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		redis:     redisClient,
		rules:     rules,
		rulesHash: rulesHash,
		facts:     store.NewFactRepository(db.Pool),
		prices:    store.NewPriceRepository(db.Pool),
		companies: store.NewCompanyRepository(db.Pool),
		runs:      store.NewRunRepository(db.Pool),
	}

	valueEngine := scoring.NewValueEngine(rules.ValueThresholds(), log)
	moatEngine := scoring.NewMoatEngine(rules.MoatThresholds(), log)
	batch := scoring.NewBatchScorer(valueEngine, moatEngine, cfg.Scoring.Workers, log)
	a.service = scoring.NewService(a.facts, a.prices, a.runs, batch, scoring.ServiceOptions{
		YearsWindow:    cfg.Scoring.YearsWindow,
		ThresholdsHash: rulesHash,
	}, log)
	a.scorer = scorecache.New(a.service, redis.NewCache(redisClient, cachePrefix), cfg.Scoring.CacheTTL, log)

	log.WithFields(map[string]interface{}{
		"env":           cfg.Env,
		"profile":       rules.Meta.ProfileID,
		"thresholds":    rulesHash[:12],
		"redis_enabled": redisClient.Enabled(),
	}).Info("Application initialized")

	return a, nil
}

// Close releases connections
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
	a.db.Close()
}
