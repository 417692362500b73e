package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/fundamentals"
	"github.com/wonny/factscore/pkg/logger"
)

// ErrNoFiscalYears is returned when a company has no facts with a fiscal year
var ErrNoFiscalYears = errors.New("no fiscal years with facts")

// ServiceOptions configures the scoring service
type ServiceOptions struct {
	YearsWindow    int
	ThresholdsHash string
}

// Service loads facts and prices and runs the engines over them
// ⭐ SSOT: the only place scoring touches storage
type Service struct {
	facts  contracts.FactRepository
	prices contracts.PriceRepository
	runs   contracts.RunRepository
	value  *ValueEngine
	moat   *MoatEngine
	batch  *BatchScorer
	opts   ServiceOptions
	logger *logger.Logger
}

// NewService creates a new scoring service. runs may be nil, in which case batch
// runs are not recorded.
func NewService(
	facts contracts.FactRepository,
	prices contracts.PriceRepository,
	runs contracts.RunRepository,
	batch *BatchScorer,
	opts ServiceOptions,
	log *logger.Logger,
) *Service {
	return &Service{
		facts:  facts,
		prices: prices,
		runs:   runs,
		value:  batch.value,
		moat:   batch.moat,
		batch:  batch,
		opts:   opts,
		logger: log.WithComponent("scoring_service"),
	}
}

// ScoreValue computes the value scorecard of one company as of a date
func (s *Service) ScoreValue(ctx context.Context, companyID int64, asOf time.Time) (*contracts.ValueScore, error) {
	p, price, err := s.load(ctx, companyID, fundamentals.ValueConcepts(), asOf)
	if err != nil {
		return nil, err
	}
	return s.value.Score(companyID, p, price), nil
}

// ScoreMoat computes the moat scorecard of one company as of a date
func (s *Service) ScoreMoat(ctx context.Context, companyID int64, asOf time.Time) (*contracts.MoatScore, error) {
	p, price, err := s.load(ctx, companyID, fundamentals.MoatConcepts(), asOf)
	if err != nil {
		return nil, err
	}
	return s.moat.Score(companyID, p, price), nil
}

func (s *Service) load(ctx context.Context, companyID int64, concepts []string, asOf time.Time) (*fundamentals.PartitionedFacts, contracts.PriceSnapshot, error) {
	facts, err := s.facts.GetScoringFacts(ctx, companyID, concepts, s.opts.YearsWindow)
	if err != nil {
		return nil, contracts.PriceSnapshot{}, fmt.Errorf("get scoring facts for %d: %w", companyID, err)
	}

	p := fundamentals.Partition(facts)
	if p.YearsOfData() == 0 {
		return nil, contracts.PriceSnapshot{}, fmt.Errorf("company %d: %w", companyID, ErrNoFiscalYears)
	}

	snap, err := s.prices.GetPriceSnapshot(ctx, companyID, asOf)
	if err != nil {
		return nil, contracts.PriceSnapshot{}, fmt.Errorf("get price snapshot for %d: %w", companyID, err)
	}
	price := contracts.PriceSnapshot{CompanyID: companyID, AsOf: asOf}
	if snap != nil {
		price = *snap
	}

	return p, price, nil
}

// RunBatch scores every company for kind and records the run
func (s *Service) RunBatch(ctx context.Context, kind contracts.ScoreKind, asOf time.Time, trigger string) (*contracts.ScoreRun, *BatchResult, error) {
	run := &contracts.ScoreRun{
		ID:             uuid.New().String(),
		Kind:           kind,
		AsOf:           asOf,
		StartedAt:      time.Now(),
		ThresholdsHash: s.opts.ThresholdsHash,
		Trigger:        trigger,
	}

	concepts := fundamentals.ValueConcepts()
	if kind == contracts.KindMoat {
		concepts = fundamentals.MoatConcepts()
	}

	facts, err := s.facts.GetAllScoringFacts(ctx, concepts, s.opts.YearsWindow)
	if err != nil {
		return nil, nil, fmt.Errorf("get all scoring facts: %w", err)
	}

	prices, err := s.prices.GetAllPriceSnapshots(ctx, asOf)
	if err != nil {
		return nil, nil, fmt.Errorf("get all price snapshots: %w", err)
	}

	result, err := s.batch.Run(ctx, kind, facts, prices)
	if err != nil {
		return nil, result, fmt.Errorf("batch %s: %w", kind, err)
	}

	run.FinishedAt = time.Now()
	run.CompaniesSeen = result.SeenCount
	run.CompaniesScored = len(result.Summaries)

	if s.runs != nil {
		if err := s.runs.SaveRun(ctx, run, result.Summaries); err != nil {
			return run, result, fmt.Errorf("save run: %w", err)
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"run_id":   run.ID,
		"kind":     kind,
		"as_of":    asOf.Format("2006-01-02"),
		"scored":   run.CompaniesScored,
		"duration": run.FinishedAt.Sub(run.StartedAt).String(),
	}).Info("Batch run recorded")

	return run, result, nil
}

// Thresholds exposes both rule sets for display
func (s *Service) Thresholds() (ValueThresholds, MoatThresholds) {
	return s.value.Thresholds(), s.moat.Thresholds()
}
