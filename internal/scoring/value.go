package scoring

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/fundamentals"
	"github.com/wonny/factscore/pkg/logger"
)

// ValueEngine computes the Graham-style value scorecard
// ⭐ SSOT: value metrics and the 13 value checks live here
type ValueEngine struct {
	thresholds ValueThresholds
	logger     *logger.Logger
}

// NewValueEngine creates a new value engine
func NewValueEngine(thresholds ValueThresholds, log *logger.Logger) *ValueEngine {
	return &ValueEngine{
		thresholds: thresholds,
		logger:     log.WithComponent("value_engine"),
	}
}

// Thresholds returns the rule set the engine scores against
func (e *ValueEngine) Thresholds() ValueThresholds {
	return e.thresholds
}

// Score evaluates one company. It never fails: missing inputs surface as absent
// metrics and NA checks.
func (e *ValueEngine) Score(companyID int64, p *fundamentals.PartitionedFacts, price contracts.PriceSnapshot) *contracts.ValueScore {
	metrics := e.computeMetrics(p, price)
	checks := e.evaluate(metrics, p.YearsOfData())
	passed, computable := contracts.TallyChecks(checks)

	e.logger.WithFields(map[string]interface{}{
		"company_id": companyID,
		"years":      p.YearsOfData(),
		"score":      passed,
		"computable": computable,
	}).Debug("Value scorecard computed")

	return &contracts.ValueScore{
		CompanyID:        companyID,
		PerYearFacts:     p.PerYearFacts(),
		Metrics:          metrics,
		Checks:           checks,
		OverallScore:     passed,
		ComputableChecks: computable,
		YearsOfData:      p.YearsOfData(),
		Price:            price,
	}
}

func (e *ValueEngine) computeMetrics(p *fundamentals.PartitionedFacts, price contracts.PriceSnapshot) contracts.ValueMetrics {
	var m contracts.ValueMetrics
	snap := p.MostRecentSnapshot
	equity := fundamentals.Equity(snap)
	debt := fundamentals.Debt(snap)

	if equity.Valid {
		m.BookValue = present(equity.Decimal.
			Sub(fundamentals.Goodwill(snap)).
			Sub(fundamentals.Intangibles(snap)))
	}
	m.MarketCap = marketCap(price)
	m.DebtToEquityRatio = ratio(debt, equity)
	m.PriceToBookRatio = ratio(m.MarketCap, m.BookValue)
	m.DebtToBookRatio = ratio(debt, m.BookValue)

	// Single ascending pass with running accumulators
	var cashFlow, ownerEarnings runningMean
	dividends := decimal.Zero
	netStock := decimal.Zero
	netPreferred := decimal.Zero

	for _, year := range p.Years() {
		f := computeYearFlows(p, year)
		cashFlow.add(f.netCashFlow)
		ownerEarnings.add(f.ownerEarnings)
		dividends = dividends.Add(f.dividends)
		netStock = netStock.Add(f.netStock)
		netPreferred = netPreferred.Add(f.netPreferred)
	}

	m.AverageNetCashFlow = cashFlow.mean()
	m.AverageOwnerEarnings = ownerEarnings.mean()

	if re := fundamentals.RetainedEarnings(snap); re.Valid {
		m.AdjustedRetainedEarnings = present(re.Decimal.Add(dividends).Sub(netStock).Sub(netPreferred))
	}
	m.OldestRetainedEarnings = p.OldestRetainedEarnings

	if p.YearsOfData() > 0 {
		m.CurrentDividendsPaid = present(fundamentals.Dividends(snap))
	}

	m.EstimatedReturnCF = estimatedReturn(m.AverageNetCashFlow, m.CurrentDividendsPaid, m.MarketCap)
	m.EstimatedReturnOE = estimatedReturn(m.AverageOwnerEarnings, m.CurrentDividendsPaid, m.MarketCap)

	return m
}

func (e *ValueEngine) evaluate(m contracts.ValueMetrics, years int) []contracts.ScoringCheck {
	t := e.thresholds
	zero := decimal.Zero

	var retainedGrowth decimal.NullDecimal
	if m.AdjustedRetainedEarnings.Valid && m.OldestRetainedEarnings.Valid {
		retainedGrowth = present(m.AdjustedRetainedEarnings.Decimal.Sub(m.OldestRetainedEarnings.Decimal))
	}

	return []contracts.ScoringCheck{
		check(1, "Debt-to-Equity", fmt.Sprintf("debt/equity < %s", t.MaxDebtToEquity),
			m.DebtToEquityRatio, lt(t.MaxDebtToEquity)),
		check(2, "Book Value", fmt.Sprintf("book value > %s", t.MinBookValue.StringFixed(0)),
			m.BookValue, gt(t.MinBookValue)),
		check(3, "Price-to-Book", fmt.Sprintf("market cap/book value <= %s", t.MaxPriceToBook),
			m.PriceToBookRatio, lte(t.MaxPriceToBook)),
		check(4, "Average Net Cash Flow Positive", "average net cash flow > 0",
			m.AverageNetCashFlow, gt(zero)),
		check(5, "Average Owner Earnings Positive", "average owner earnings > 0",
			m.AverageOwnerEarnings, gt(zero)),
		check(6, "Estimated Return (CF) Floor", fmt.Sprintf("> %s%%", t.MinEstimatedReturn),
			m.EstimatedReturnCF, gt(t.MinEstimatedReturn)),
		check(7, "Estimated Return (OE) Floor", fmt.Sprintf("> %s%%", t.MinEstimatedReturn),
			m.EstimatedReturnOE, gt(t.MinEstimatedReturn)),
		check(8, "Estimated Return (CF) Cap", fmt.Sprintf("< %s%%", t.MaxEstimatedReturn),
			m.EstimatedReturnCF, lt(t.MaxEstimatedReturn)),
		check(9, "Estimated Return (OE) Cap", fmt.Sprintf("< %s%%", t.MaxEstimatedReturn),
			m.EstimatedReturnOE, lt(t.MaxEstimatedReturn)),
		check(10, "Debt-to-Book", fmt.Sprintf("debt/book value < %s", t.MaxDebtToBook),
			m.DebtToBookRatio, lt(t.MaxDebtToBook)),
		check(11, "Retained Earnings Positive", "adjusted retained earnings > 0",
			m.AdjustedRetainedEarnings, gt(zero)),
		check(12, "History", fmt.Sprintf("years of data >= %d", t.MinYears),
			present(decimal.NewFromInt(int64(years))), gte(decimal.NewFromInt(int64(t.MinYears)))),
		check(13, "Retained Earnings Increased", "adjusted retained earnings > oldest retained earnings",
			retainedGrowth, gt(zero)),
	}
}
