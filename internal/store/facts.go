package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/factscore/internal/contracts"
)

// FactRepository reads and writes concept facts
type FactRepository struct {
	db *pgxpool.Pool
}

// NewFactRepository creates a new FactRepository
func NewFactRepository(db *pgxpool.Pool) *FactRepository {
	return &FactRepository{db: db}
}

// latestFactsQuery keeps the fact with the latest period end per
// (company, concept, fiscal year), then trims each company to its most recent
// yearsWindow fiscal years.
const latestFactsQuery = `
	WITH latest AS (
		SELECT DISTINCT ON (f.company_id, f.concept, f.fiscal_year)
			f.company_id,
			f.concept,
			f.fiscal_year,
			f.period_end,
			f.value,
			f.balance
		FROM fundamentals.concept_facts f
		WHERE f.concept = ANY($1)
			AND ($3::bigint IS NULL OR f.company_id = $3)
		ORDER BY f.company_id, f.concept, f.fiscal_year, f.period_end DESC
	),
	bounds AS (
		SELECT company_id, MAX(fiscal_year) AS max_year
		FROM latest
		GROUP BY company_id
	)
	SELECT
		l.company_id,
		l.concept,
		l.fiscal_year,
		l.period_end,
		l.value::text,
		l.balance
	FROM latest l
	JOIN bounds b ON b.company_id = l.company_id
	WHERE l.fiscal_year > b.max_year - $2
	ORDER BY l.company_id, l.fiscal_year DESC, l.concept
`

// GetScoringFacts loads the scoring facts of one company
func (r *FactRepository) GetScoringFacts(ctx context.Context, companyID int64, concepts []string, yearsWindow int) ([]contracts.ConceptFact, error) {
	return r.queryFacts(ctx, concepts, yearsWindow, &companyID)
}

// GetAllScoringFacts loads the scoring facts of every company
func (r *FactRepository) GetAllScoringFacts(ctx context.Context, concepts []string, yearsWindow int) ([]contracts.ConceptFact, error) {
	return r.queryFacts(ctx, concepts, yearsWindow, nil)
}

func (r *FactRepository) queryFacts(ctx context.Context, concepts []string, yearsWindow int, companyID *int64) ([]contracts.ConceptFact, error) {
	if yearsWindow < 1 {
		return nil, fmt.Errorf("years window must be positive, got %d", yearsWindow)
	}

	rows, err := r.db.Query(ctx, latestFactsQuery, concepts, yearsWindow, companyID)
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	var facts []contracts.ConceptFact
	for rows.Next() {
		var (
			f       contracts.ConceptFact
			value   string
			balance *string
		)
		if err := rows.Scan(&f.CompanyID, &f.Concept, &f.FiscalYear, &f.PeriodEnd, &value, &balance); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		if f.Value, err = parseNumeric(value); err != nil {
			return nil, fmt.Errorf("fact %d/%s/%d: %w", f.CompanyID, f.Concept, f.FiscalYear, err)
		}
		if balance != nil {
			f.Balance = contracts.ParseBalanceSign(*balance)
		}
		facts = append(facts, f)
	}

	return facts, rows.Err()
}

// SaveFacts upserts facts in one transaction
func (r *FactRepository) SaveFacts(ctx context.Context, facts []contracts.ConceptFact) error {
	if len(facts) == 0 {
		return nil
	}

	query := `
		INSERT INTO fundamentals.concept_facts (
			company_id, concept, fiscal_year, period_end, value, balance
		) VALUES ($1, $2, $3, $4, $5::text::numeric, NULLIF($6, ''))
		ON CONFLICT (company_id, concept, fiscal_year, period_end) DO UPDATE SET
			value = EXCLUDED.value,
			balance = EXCLUDED.balance
	`

	batch := &pgx.Batch{}
	for _, f := range facts {
		batch.Queue(query,
			f.CompanyID,
			f.Concept,
			f.FiscalYear,
			f.PeriodEnd,
			f.Value.String(),
			string(f.Balance),
		)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, batch)
	for i := range facts {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("upsert fact %d (%s %d): %w", i, facts[i].Concept, facts[i].FiscalYear, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}
