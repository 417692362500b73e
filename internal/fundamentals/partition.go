package fundamentals

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wonny/factscore/internal/contracts"
)

// PartitionedFacts is one company's facts regrouped for scoring.
// Built once by Partition and never mutated afterwards.
type PartitionedFacts struct {
	AnnualByYear           map[int]YearConceptMap
	MostRecentYear         int
	MostRecentSnapshot     YearConceptMap
	OldestRetainedEarnings decimal.NullDecimal
	BalanceSigns           map[string]contracts.BalanceSign

	years []int
}

// Partition groups a company's facts by fiscal year. The first fact seen for a
// (year, concept) wins, so callers pass the most authoritative filing first.
// Facts without a fiscal year are dropped.
func Partition(facts []contracts.ConceptFact) *PartitionedFacts {
	p := &PartitionedFacts{
		AnnualByYear:       make(map[int]YearConceptMap),
		MostRecentSnapshot: YearConceptMap{},
		BalanceSigns:       make(map[string]contracts.BalanceSign),
	}

	for _, f := range facts {
		if f.FiscalYear <= 0 {
			continue
		}
		year, ok := p.AnnualByYear[f.FiscalYear]
		if !ok {
			year = YearConceptMap{}
			p.AnnualByYear[f.FiscalYear] = year
		}
		if _, dup := year[f.Concept]; !dup {
			year[f.Concept] = f.Value
		}
		if f.Balance != contracts.BalanceNotApplicable {
			if _, known := p.BalanceSigns[f.Concept]; !known {
				p.BalanceSigns[f.Concept] = f.Balance
			}
		}
	}

	p.years = make([]int, 0, len(p.AnnualByYear))
	for y := range p.AnnualByYear {
		p.years = append(p.years, y)
	}
	sort.Ints(p.years)

	if len(p.years) == 0 {
		return p
	}

	p.MostRecentYear = p.years[len(p.years)-1]
	p.MostRecentSnapshot = p.AnnualByYear[p.MostRecentYear]

	for _, y := range p.years {
		if re := ResolveOptional(p.AnnualByYear[y], chainRetainedEarnings); re.Valid {
			p.OldestRetainedEarnings = re
			break
		}
	}

	return p
}

// Years returns the fiscal years present, ascending
func (p *PartitionedFacts) Years() []int {
	out := make([]int, len(p.years))
	copy(out, p.years)
	return out
}

// YearsOfData is the number of distinct fiscal years with at least one fact
func (p *PartitionedFacts) YearsOfData() int {
	return len(p.AnnualByYear)
}

// Previous returns the concept map of the fiscal year before y, if present
func (p *PartitionedFacts) Previous(y int) (YearConceptMap, bool) {
	m, ok := p.AnnualByYear[y-1]
	return m, ok
}

// Sign returns the balance sign for concept, preferring what the facts carried
func (p *PartitionedFacts) Sign(concept string) contracts.BalanceSign {
	if s, ok := p.BalanceSigns[concept]; ok {
		return s
	}
	return defaultBalanceSigns[concept]
}

// PerYearFacts exposes the raw per-year maps for audit display
func (p *PartitionedFacts) PerYearFacts() map[int]map[string]decimal.Decimal {
	out := make(map[int]map[string]decimal.Decimal, len(p.AnnualByYear))
	for y, m := range p.AnnualByYear {
		row := make(map[string]decimal.Decimal, len(m))
		for k, v := range m {
			row[k] = v
		}
		out[y] = row
	}
	return out
}

// GroupByCompany splits a multi-company fact list, keeping per-company order
func GroupByCompany(facts []contracts.ConceptFact) map[int64][]contracts.ConceptFact {
	out := make(map[int64][]contracts.ConceptFact)
	for _, f := range facts {
		out[f.CompanyID] = append(out[f.CompanyID], f)
	}
	return out
}
