package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/factscore/internal/contracts"
)

// CompanyRepository reads and writes companies
type CompanyRepository struct {
	db *pgxpool.Pool
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// ListCompanies returns every company ordered by ticker
func (r *CompanyRepository) ListCompanies(ctx context.Context) ([]contracts.Company, error) {
	query := `
		SELECT id, ticker, name, cik
		FROM fundamentals.companies
		ORDER BY ticker
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var companies []contracts.Company
	for rows.Next() {
		var c contracts.Company
		if err := rows.Scan(&c.ID, &c.Ticker, &c.Name, &c.CIK); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}

	return companies, rows.Err()
}

// GetCompany returns one company, or nil if it does not exist
func (r *CompanyRepository) GetCompany(ctx context.Context, id int64) (*contracts.Company, error) {
	query := `
		SELECT id, ticker, name, cik
		FROM fundamentals.companies
		WHERE id = $1
	`

	var c contracts.Company
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Ticker, &c.Name, &c.CIK)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query company %d: %w", id, err)
	}

	return &c, nil
}

// UpsertCompany inserts or updates a company
func (r *CompanyRepository) UpsertCompany(ctx context.Context, c contracts.Company) error {
	query := `
		INSERT INTO fundamentals.companies (id, ticker, name, cik)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			ticker = EXCLUDED.ticker,
			name = EXCLUDED.name,
			cik = EXCLUDED.cik
	`

	if _, err := r.db.Exec(ctx, query, c.ID, c.Ticker, c.Name, c.CIK); err != nil {
		return fmt.Errorf("upsert company %d: %w", c.ID, err)
	}

	return nil
}
