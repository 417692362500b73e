package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/factscore/internal/contracts"
)

// PriceRepository reads and writes price snapshots
type PriceRepository struct {
	db *pgxpool.Pool
}

// NewPriceRepository creates a new PriceRepository
func NewPriceRepository(db *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{db: db}
}

// GetPriceSnapshot returns the latest snapshot on or before asOf, or nil if none
func (r *PriceRepository) GetPriceSnapshot(ctx context.Context, companyID int64, asOf time.Time) (*contracts.PriceSnapshot, error) {
	query := `
		SELECT company_id, as_of, price_per_share::text, shares_outstanding::text
		FROM fundamentals.price_snapshots
		WHERE company_id = $1 AND as_of <= $2
		ORDER BY as_of DESC
		LIMIT 1
	`

	snap, err := scanSnapshot(r.db.QueryRow(ctx, query, companyID, asOf))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query price snapshot: %w", err)
	}

	return snap, nil
}

// GetAllPriceSnapshots returns each company's latest snapshot on or before asOf
func (r *PriceRepository) GetAllPriceSnapshots(ctx context.Context, asOf time.Time) (map[int64]contracts.PriceSnapshot, error) {
	query := `
		SELECT DISTINCT ON (company_id)
			company_id, as_of, price_per_share::text, shares_outstanding::text
		FROM fundamentals.price_snapshots
		WHERE as_of <= $1
		ORDER BY company_id, as_of DESC
	`

	rows, err := r.db.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("query price snapshots: %w", err)
	}
	defer rows.Close()

	snaps := make(map[int64]contracts.PriceSnapshot)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price snapshot: %w", err)
		}
		snaps[snap.CompanyID] = *snap
	}

	return snaps, rows.Err()
}

// SavePriceSnapshot upserts one snapshot
func (r *PriceRepository) SavePriceSnapshot(ctx context.Context, snap contracts.PriceSnapshot) error {
	query := `
		INSERT INTO fundamentals.price_snapshots (
			company_id, as_of, price_per_share, shares_outstanding
		) VALUES ($1, $2, $3::text::numeric, $4::text::numeric)
		ON CONFLICT (company_id, as_of) DO UPDATE SET
			price_per_share = EXCLUDED.price_per_share,
			shares_outstanding = EXCLUDED.shares_outstanding
	`

	_, err := r.db.Exec(ctx, query,
		snap.CompanyID,
		snap.AsOf,
		numericArg(snap.PricePerShare),
		numericArg(snap.SharesOutstanding),
	)
	if err != nil {
		return fmt.Errorf("upsert price snapshot: %w", err)
	}

	return nil
}

func scanSnapshot(row pgx.Row) (*contracts.PriceSnapshot, error) {
	var (
		snap          contracts.PriceSnapshot
		price, shares *string
	)
	if err := row.Scan(&snap.CompanyID, &snap.AsOf, &price, &shares); err != nil {
		return nil, err
	}

	var err error
	if snap.PricePerShare, err = parseNullNumeric(price); err != nil {
		return nil, err
	}
	if snap.SharesOutstanding, err = parseNullNumeric(shares); err != nil {
		return nil, err
	}

	return &snap, nil
}
