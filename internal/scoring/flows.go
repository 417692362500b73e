package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/factscore/internal/fundamentals"
)

// yearFlows holds the per-year cash figures both scorecards average over
type yearFlows struct {
	year          int
	netCashFlow   decimal.NullDecimal
	ownerEarnings decimal.NullDecimal
	capex         decimal.Decimal
	dividends     decimal.Decimal
	buybacks      decimal.Decimal
	netStock      decimal.Decimal
	netPreferred  decimal.Decimal
}

// computeYearFlows derives one fiscal year's flows.
//
//	net cash flow  = gross cash flow − (net debt + net stock + net preferred issuance)
//	owner earnings = net income + D&A + deferred tax + other non-cash − capex + working capital
func computeYearFlows(p *fundamentals.PartitionedFacts, year int) yearFlows {
	m := p.AnnualByYear[year]
	prev, ok := p.Previous(year)
	if !ok {
		prev = nil
	}

	f := yearFlows{
		year:         year,
		capex:        fundamentals.CapEx(m),
		dividends:    fundamentals.Dividends(m),
		buybacks:     fundamentals.Buybacks(m),
		netStock:     fundamentals.NetStockIssuance(m),
		netPreferred: fundamentals.NetPreferredIssuance(m),
	}

	if gross := fundamentals.GrossCashFlow(m, prev); gross.Valid {
		financing := fundamentals.NetDebtIssuance(m).Add(f.netStock).Add(f.netPreferred)
		f.netCashFlow = present(gross.Decimal.Sub(financing))
	}

	if ni := fundamentals.NetIncome(m); ni.Valid {
		oe := ni.Decimal.
			Add(fundamentals.DepletionAndAmortization(m)).
			Add(fundamentals.DeferredTax(m)).
			Add(fundamentals.OtherNonCash(m)).
			Sub(f.capex).
			Add(fundamentals.WorkingCapitalChange(m, p))
		f.ownerEarnings = present(oe)
	}

	return f
}
