package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/factscore/internal/contracts"
)

const dateLayout = "2006-01-02"

// Dataset is a JSON bundle of companies, facts and prices for seeding a database
type Dataset struct {
	Companies []contracts.Company `json:"companies"`
	Facts     []datasetFact       `json:"facts"`
	Prices    []datasetPrice      `json:"prices"`
}

type datasetFact struct {
	CompanyID  int64           `json:"company_id"`
	Concept    string          `json:"concept"`
	FiscalYear int             `json:"fiscal_year"`
	PeriodEnd  string          `json:"period_end"`
	Value      decimal.Decimal `json:"value"`
	Balance    string          `json:"balance"`
}

type datasetPrice struct {
	CompanyID         int64               `json:"company_id"`
	AsOf              string              `json:"as_of"`
	PricePerShare     decimal.NullDecimal `json:"price_per_share"`
	SharesOutstanding decimal.NullDecimal `json:"shares_outstanding"`
}

// ReadDataset decodes a dataset, rejecting unknown fields
func ReadDataset(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &ds, nil
}

// ConceptFacts converts the dataset facts. A missing period end defaults to
// December 31 of the fiscal year.
func (ds *Dataset) ConceptFacts() ([]contracts.ConceptFact, error) {
	facts := make([]contracts.ConceptFact, 0, len(ds.Facts))
	for i, f := range ds.Facts {
		periodEnd := time.Date(f.FiscalYear, time.December, 31, 0, 0, 0, 0, time.UTC)
		if f.PeriodEnd != "" {
			t, err := time.Parse(dateLayout, f.PeriodEnd)
			if err != nil {
				return nil, fmt.Errorf("fact %d: period_end: %w", i, err)
			}
			periodEnd = t
		}
		facts = append(facts, contracts.ConceptFact{
			CompanyID:  f.CompanyID,
			Concept:    f.Concept,
			Value:      f.Value,
			FiscalYear: f.FiscalYear,
			PeriodEnd:  periodEnd,
			Balance:    contracts.ParseBalanceSign(f.Balance),
		})
	}
	return facts, nil
}

// PriceSnapshots converts the dataset prices
func (ds *Dataset) PriceSnapshots() ([]contracts.PriceSnapshot, error) {
	snaps := make([]contracts.PriceSnapshot, 0, len(ds.Prices))
	for i, p := range ds.Prices {
		asOf, err := time.Parse(dateLayout, p.AsOf)
		if err != nil {
			return nil, fmt.Errorf("price %d: as_of: %w", i, err)
		}
		snaps = append(snaps, contracts.PriceSnapshot{
			CompanyID:         p.CompanyID,
			PricePerShare:     p.PricePerShare,
			SharesOutstanding: p.SharesOutstanding,
			AsOf:              asOf,
		})
	}
	return snaps, nil
}

// SeedCounts reports how many rows Seed wrote
type SeedCounts struct {
	Companies int
	Facts     int
	Prices    int
}

// Seed upserts a whole dataset through the repositories
func Seed(ctx context.Context, companies *CompanyRepository, facts *FactRepository, prices *PriceRepository, ds *Dataset) (SeedCounts, error) {
	var counts SeedCounts

	conceptFacts, err := ds.ConceptFacts()
	if err != nil {
		return counts, err
	}
	snaps, err := ds.PriceSnapshots()
	if err != nil {
		return counts, err
	}

	for _, c := range ds.Companies {
		if err := companies.UpsertCompany(ctx, c); err != nil {
			return counts, err
		}
		counts.Companies++
	}

	if err := facts.SaveFacts(ctx, conceptFacts); err != nil {
		return counts, err
	}
	counts.Facts = len(conceptFacts)

	for _, s := range snaps {
		if err := prices.SavePriceSnapshot(ctx, s); err != nil {
			return counts, err
		}
		counts.Prices++
	}

	return counts, nil
}
