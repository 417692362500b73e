package scoring

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/fundamentals"
	"github.com/wonny/factscore/pkg/logger"
)

// BatchScorer applies one engine to many companies
// ⭐ SSOT: multi-company scoring fan-out lives here
type BatchScorer struct {
	value   *ValueEngine
	moat    *MoatEngine
	workers int
	logger  *logger.Logger
}

// BatchResult holds everything one batch run produced. Summaries are unordered.
type BatchResult struct {
	Kind        contracts.ScoreKind
	Summaries   []contracts.ScoreSummary
	Value       map[int64]*contracts.ValueScore
	Moat        map[int64]*contracts.MoatScore
	SeenCount   int // companies with at least one fact
	Skipped     int // companies with zero fiscal years
	Interrupted bool
}

// companyJob is one company's input to a worker
type companyJob struct {
	companyID int64
	facts     []contracts.ConceptFact
	price     contracts.PriceSnapshot
}

// companyResult is what a worker sends back for one company
type companyResult struct {
	companyID int64
	value     *contracts.ValueScore
	moat      *contracts.MoatScore
	skipped   bool
}

// NewBatchScorer creates a new batch scorer. workers below 1 means one worker.
func NewBatchScorer(value *ValueEngine, moat *MoatEngine, workers int, log *logger.Logger) *BatchScorer {
	if workers < 1 {
		workers = 1
	}
	return &BatchScorer{
		value:   value,
		moat:    moat,
		workers: workers,
		logger:  log.WithComponent("batch_scorer"),
	}
}

// Run groups facts by company and scores each one concurrently. prices may omit
// companies; those score with an absent market cap. Cancelling ctx stops the
// dispatch of new companies and returns what was already scored.
func (b *BatchScorer) Run(ctx context.Context, kind contracts.ScoreKind, facts []contracts.ConceptFact, prices map[int64]contracts.PriceSnapshot) (*BatchResult, error) {
	if kind != contracts.KindValue && kind != contracts.KindMoat {
		return nil, fmt.Errorf("unknown score kind %q", kind)
	}

	byCompany := fundamentals.GroupByCompany(facts)

	b.logger.WithFields(map[string]interface{}{
		"kind":      kind,
		"companies": len(byCompany),
		"facts":     len(facts),
		"workers":   b.workers,
	}).Info("Starting batch scoring")

	jobCh := make(chan companyJob, len(byCompany))
	resultCh := make(chan companyResult, len(byCompany))

	var wg sync.WaitGroup
	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.worker(kind, jobCh, resultCh)
		}()
	}

	// jobCh is sized for every company, so sends never block
	interrupted := false
	for companyID, companyFacts := range byCompany {
		if ctx.Err() != nil {
			interrupted = true
			break
		}
		price, ok := prices[companyID]
		if !ok {
			price = contracts.PriceSnapshot{CompanyID: companyID}
		}
		jobCh <- companyJob{companyID: companyID, facts: companyFacts, price: price}
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	result := &BatchResult{
		Kind:        kind,
		Summaries:   make([]contracts.ScoreSummary, 0, len(byCompany)),
		Value:       make(map[int64]*contracts.ValueScore),
		Moat:        make(map[int64]*contracts.MoatScore),
		SeenCount:   len(byCompany),
		Interrupted: interrupted,
	}
	for r := range resultCh {
		switch {
		case r.skipped:
			result.Skipped++
		case r.value != nil:
			result.Value[r.companyID] = r.value
			result.Summaries = append(result.Summaries, r.value.Summary())
		case r.moat != nil:
			result.Moat[r.companyID] = r.moat
			result.Summaries = append(result.Summaries, r.moat.Summary())
		}
	}

	b.logger.WithFields(map[string]interface{}{
		"kind":        kind,
		"scored":      len(result.Summaries),
		"skipped":     result.Skipped,
		"interrupted": interrupted,
	}).Info("Batch scoring completed")

	if interrupted {
		return result, ctx.Err()
	}
	return result, nil
}

// worker scores companies until jobCh closes
func (b *BatchScorer) worker(kind contracts.ScoreKind, jobCh <-chan companyJob, resultCh chan<- companyResult) {
	for job := range jobCh {
		partitioned := fundamentals.Partition(job.facts)
		if partitioned.YearsOfData() == 0 {
			resultCh <- companyResult{companyID: job.companyID, skipped: true}
			continue
		}

		switch kind {
		case contracts.KindValue:
			resultCh <- companyResult{
				companyID: job.companyID,
				value:     b.value.Score(job.companyID, partitioned, job.price),
			}
		case contracts.KindMoat:
			resultCh <- companyResult{
				companyID: job.companyID,
				moat:      b.moat.Score(job.companyID, partitioned, job.price),
			}
		}
	}
}
