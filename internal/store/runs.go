package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/factscore/internal/contracts"
)

// RunRepository persists batch runs and their summaries
type RunRepository struct {
	db *pgxpool.Pool
}

// NewRunRepository creates a new RunRepository
func NewRunRepository(db *pgxpool.Pool) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun stores a run and all its summaries atomically
func (r *RunRepository) SaveRun(ctx context.Context, run *contracts.ScoreRun, summaries []contracts.ScoreSummary) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	runQuery := `
		INSERT INTO fundamentals.score_runs (
			id, kind, as_of, started_at, finished_at,
			companies_seen, companies_scored, thresholds_hash, trigger
		) VALUES ($1::text::uuid, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, runQuery,
		run.ID,
		string(run.Kind),
		run.AsOf,
		run.StartedAt,
		run.FinishedAt,
		run.CompaniesSeen,
		run.CompaniesScored,
		run.ThresholdsHash,
		run.Trigger,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(summaries) > 0 {
		summaryQuery := `
			INSERT INTO fundamentals.score_summaries (
				run_id, company_id, kind, overall_score, computable_checks,
				years_of_data, market_cap, estimated_return
			) VALUES ($1::text::uuid, $2, $3, $4, $5, $6, $7::text::numeric, $8::text::numeric)
		`
		batch := &pgx.Batch{}
		for _, s := range summaries {
			batch.Queue(summaryQuery,
				run.ID,
				s.CompanyID,
				string(s.Kind),
				s.OverallScore,
				s.ComputableChecks,
				s.YearsOfData,
				numericArg(s.MarketCap),
				numericArg(s.EstimatedReturn),
			)
		}

		br := tx.SendBatch(ctx, batch)
		for _, s := range summaries {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("insert summary for %d: %w", s.CompanyID, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("close batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}

	return nil
}

// ListRuns returns the most recent runs of a kind, newest first
func (r *RunRepository) ListRuns(ctx context.Context, kind contracts.ScoreKind, limit int) ([]contracts.ScoreRun, error) {
	query := `
		SELECT id::text, kind, as_of, started_at, finished_at,
			companies_seen, companies_scored, thresholds_hash, trigger
		FROM fundamentals.score_runs
		WHERE kind = $1
		ORDER BY finished_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []contracts.ScoreRun
	for rows.Next() {
		var (
			run  contracts.ScoreRun
			kind string
		)
		err := rows.Scan(
			&run.ID,
			&kind,
			&run.AsOf,
			&run.StartedAt,
			&run.FinishedAt,
			&run.CompaniesSeen,
			&run.CompaniesScored,
			&run.ThresholdsHash,
			&run.Trigger,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Kind = contracts.ScoreKind(kind)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// summaryOrderBy maps a ranking to its ORDER BY clause
var summaryOrderBy = map[contracts.SummaryOrder]string{
	contracts.OrderByScore: "s.overall_score DESC, s.computable_checks DESC, s.company_id",
	contracts.OrderByYears: "s.years_of_data DESC, s.overall_score DESC, s.company_id",
}

// LatestSummaries returns the summaries of the newest run of a kind
func (r *RunRepository) LatestSummaries(ctx context.Context, kind contracts.ScoreKind, order contracts.SummaryOrder, limit int) ([]contracts.ScoreSummary, error) {
	orderBy, ok := summaryOrderBy[order]
	if !ok {
		return nil, fmt.Errorf("unknown summary order %q", order)
	}

	query := `
		SELECT s.company_id, s.kind, s.overall_score, s.computable_checks,
			s.years_of_data, s.market_cap::text, s.estimated_return::text
		FROM fundamentals.score_summaries s
		WHERE s.run_id = (
			SELECT id FROM fundamentals.score_runs
			WHERE kind = $1
			ORDER BY finished_at DESC
			LIMIT 1
		)
		ORDER BY ` + orderBy + `
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []contracts.ScoreSummary
	for rows.Next() {
		var (
			s                 contracts.ScoreSummary
			kind              string
			marketCap, estRet *string
		)
		err := rows.Scan(&s.CompanyID, &kind, &s.OverallScore, &s.ComputableChecks,
			&s.YearsOfData, &marketCap, &estRet)
		if err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.Kind = contracts.ScoreKind(kind)
		if s.MarketCap, err = parseNullNumeric(marketCap); err != nil {
			return nil, err
		}
		if s.EstimatedReturn, err = parseNullNumeric(estRet); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}
