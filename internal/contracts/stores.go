package contracts

import (
	"context"
	"time"
)

// ⭐ SSOT: data-access interfaces consumed by scoring

// FactRepository supplies concept facts. Both methods keep only the fact with the
// latest period end for each (company, concept, fiscal year).
type FactRepository interface {
	GetScoringFacts(ctx context.Context, companyID int64, concepts []string, yearsWindow int) ([]ConceptFact, error)
	GetAllScoringFacts(ctx context.Context, concepts []string, yearsWindow int) ([]ConceptFact, error)
}

// PriceRepository supplies price/share-count snapshots as of a scoring date
type PriceRepository interface {
	GetPriceSnapshot(ctx context.Context, companyID int64, asOf time.Time) (*PriceSnapshot, error)
	GetAllPriceSnapshots(ctx context.Context, asOf time.Time) (map[int64]PriceSnapshot, error)
}

// CompanyRepository lists scorable companies
type CompanyRepository interface {
	ListCompanies(ctx context.Context) ([]Company, error)
	GetCompany(ctx context.Context, id int64) (*Company, error)
}

// ScoreRun is the audit record of one batch scoring run
type ScoreRun struct {
	ID              string    `json:"id"`
	Kind            ScoreKind `json:"kind"`
	AsOf            time.Time `json:"as_of"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	CompaniesSeen   int       `json:"companies_seen"`
	CompaniesScored int       `json:"companies_scored"`
	ThresholdsHash  string    `json:"thresholds_hash"`
	Trigger         string    `json:"trigger"`
}

// SummaryOrder selects the ranking of stored summaries
type SummaryOrder string

const (
	OrderByScore SummaryOrder = "score"
	OrderByYears SummaryOrder = "years"
)

// RunRepository persists batch runs and the summaries they produced
type RunRepository interface {
	SaveRun(ctx context.Context, run *ScoreRun, summaries []ScoreSummary) error
	ListRuns(ctx context.Context, kind ScoreKind, limit int) ([]ScoreRun, error)
	LatestSummaries(ctx context.Context, kind ScoreKind, order SummaryOrder, limit int) ([]ScoreSummary, error)
}
