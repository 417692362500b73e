package scoring

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/fundamentals"
	"github.com/wonny/factscore/pkg/logger"
)

// MoatEngine computes the Buffett-style quality scorecard and its trend series
// ⭐ SSOT: moat metrics and the 13 moat checks live here
type MoatEngine struct {
	thresholds MoatThresholds
	logger     *logger.Logger
}

// NewMoatEngine creates a new moat engine
func NewMoatEngine(thresholds MoatThresholds, log *logger.Logger) *MoatEngine {
	return &MoatEngine{
		thresholds: thresholds,
		logger:     log.WithComponent("moat_engine"),
	}
}

// Thresholds returns the rule set the engine scores against
func (e *MoatEngine) Thresholds() MoatThresholds {
	return e.thresholds
}

// yearRevenue is a revenue figure pinned to its fiscal year
type yearRevenue struct {
	year  int
	value decimal.Decimal
}

// moatAccumulators are the running totals of the per-year pass
type moatAccumulators struct {
	grossMargin     runningMean
	operatingMargin runningMean
	roeCF           runningMean
	roeOE           runningMean
	ownerEarnings   runningMean
	capex           runningMean

	oldestRevenue *yearRevenue
	latestRevenue *yearRevenue

	positiveOeYears    int
	totalOeYears       int
	capitalReturnYears int
	totalReturnYears   int
}

// Score evaluates one company. Like ValueEngine.Score it is total.
func (e *MoatEngine) Score(companyID int64, p *fundamentals.PartitionedFacts, price contracts.PriceSnapshot) *contracts.MoatScore {
	metrics, trend := e.computeMetrics(p, price)
	checks := e.evaluate(metrics, p.YearsOfData())
	passed, computable := contracts.TallyChecks(checks)

	e.logger.WithFields(map[string]interface{}{
		"company_id": companyID,
		"years":      p.YearsOfData(),
		"score":      passed,
		"computable": computable,
	}).Debug("Moat scorecard computed")

	return &contracts.MoatScore{
		CompanyID:        companyID,
		PerYearFacts:     p.PerYearFacts(),
		Metrics:          metrics,
		Checks:           checks,
		Trend:            trend,
		OverallScore:     passed,
		ComputableChecks: computable,
		YearsOfData:      p.YearsOfData(),
		Price:            price,
	}
}

func (e *MoatEngine) computeMetrics(p *fundamentals.PartitionedFacts, price contracts.PriceSnapshot) (contracts.MoatMetrics, []contracts.MoatYearMetrics) {
	var acc moatAccumulators
	years := p.Years()
	trend := make([]contracts.MoatYearMetrics, 0, len(years))

	for _, year := range years {
		m := p.AnnualByYear[year]
		f := computeYearFlows(p, year)

		revenue := fundamentals.Revenue(m)
		equity := fundamentals.Equity(m)

		row := contracts.MoatYearMetrics{
			Year:               year,
			GrossMarginPct:     percentOf(fundamentals.GrossProfit(m), revenue),
			OperatingMarginPct: percentOf(fundamentals.OperatingIncome(m), revenue),
			RoeCFPct:           percentOf(f.netCashFlow, equity),
			RoeOEPct:           percentOf(f.ownerEarnings, equity),
			Revenue:            revenue,
		}
		trend = append(trend, row)

		acc.grossMargin.add(row.GrossMarginPct)
		acc.operatingMargin.add(row.OperatingMarginPct)
		acc.roeCF.add(row.RoeCFPct)
		acc.roeOE.add(row.RoeOEPct)

		if revenue.Valid {
			r := &yearRevenue{year: year, value: revenue.Decimal}
			if acc.oldestRevenue == nil {
				acc.oldestRevenue = r
			}
			acc.latestRevenue = r
		}

		if f.ownerEarnings.Valid {
			acc.totalOeYears++
			if f.ownerEarnings.Decimal.IsPositive() {
				acc.positiveOeYears++
			}
			acc.ownerEarnings.add(f.ownerEarnings)
			acc.capex.add(present(f.capex))
		}

		acc.totalReturnYears++
		if f.dividends.Add(f.buybacks).IsPositive() {
			acc.capitalReturnYears++
		}
	}

	snap := p.MostRecentSnapshot

	metrics := contracts.MoatMetrics{
		AverageGrossMargin:      acc.grossMargin.mean(),
		AverageOperatingMargin:  acc.operatingMargin.mean(),
		AverageRoeCF:            acc.roeCF.mean(),
		AverageRoeOE:            acc.roeOE.mean(),
		RevenueCagr:             revenueCagr(acc.oldestRevenue, acc.latestRevenue),
		CapexRatio:              percentOf(acc.capex.mean(), acc.ownerEarnings.mean()),
		DebtToEquityRatio:       ratio(fundamentals.Debt(snap), fundamentals.Equity(snap)),
		MarketCap:               marketCap(price),
		PricePerShare:           price.PricePerShare,
		PositiveOeYears:         acc.positiveOeYears,
		TotalOeYears:            acc.totalOeYears,
		CapitalReturnYears:      acc.capitalReturnYears,
		TotalCapitalReturnYears: acc.totalReturnYears,
	}

	// Coverage is a most-recent-year figure, never carried forward from older years
	metrics.InterestCoverage = ratio(fundamentals.OperatingIncome(snap), fundamentals.InterestExpense(snap))

	if len(years) > 0 {
		metrics.CurrentDividendsPaid = present(fundamentals.Dividends(snap))
	}
	metrics.EstimatedReturnOE = estimatedReturn(acc.ownerEarnings.mean(), metrics.CurrentDividendsPaid, metrics.MarketCap)

	return metrics, trend
}

// revenueCagr is the compound annual growth rate in percent between the oldest and
// latest revenue years. Absent for a single year, non-positive endpoints, or a
// non-finite result.
func revenueCagr(oldest, latest *yearRevenue) decimal.NullDecimal {
	if oldest == nil || latest == nil {
		return decimal.NullDecimal{}
	}
	span := latest.year - oldest.year
	if span < 1 || !oldest.value.IsPositive() || !latest.value.IsPositive() {
		return decimal.NullDecimal{}
	}

	growth := latest.value.Div(oldest.value).InexactFloat64()
	cagr := (math.Pow(growth, 1/float64(span)) - 1) * 100
	if math.IsNaN(cagr) || math.IsInf(cagr, 0) {
		return decimal.NullDecimal{}
	}
	return present(decimal.NewFromFloat(cagr))
}

func (e *MoatEngine) evaluate(m contracts.MoatMetrics, years int) []contracts.ScoringCheck {
	t := e.thresholds

	var allPositive, returnShare decimal.NullDecimal
	if m.TotalOeYears > 0 {
		allPositive = present(decimal.NewFromInt(int64(m.PositiveOeYears)))
	}
	if m.TotalCapitalReturnYears > 0 {
		returnShare = present(decimal.NewFromInt(int64(m.CapitalReturnYears)).
			Div(decimal.NewFromInt(int64(m.TotalCapitalReturnYears))))
	}
	totalOe := decimal.NewFromInt(int64(m.TotalOeYears))

	return []contracts.ScoringCheck{
		check(1, "Average ROE (CF)", fmt.Sprintf(">= %s%%", t.MinRoeCF),
			m.AverageRoeCF, gte(t.MinRoeCF)),
		check(2, "Average ROE (OE)", fmt.Sprintf(">= %s%%", t.MinRoeOE),
			m.AverageRoeOE, gte(t.MinRoeOE)),
		check(3, "Average Gross Margin", fmt.Sprintf(">= %s%%", t.MinGrossMargin),
			m.AverageGrossMargin, gte(t.MinGrossMargin)),
		check(4, "Average Operating Margin", fmt.Sprintf(">= %s%%", t.MinOperatingMargin),
			m.AverageOperatingMargin, gte(t.MinOperatingMargin)),
		check(5, "Revenue Growth", fmt.Sprintf("CAGR > %s%%", t.MinRevenueCagr),
			m.RevenueCagr, gt(t.MinRevenueCagr)),
		check(6, "Positive Owner Earnings Every Year", "positive years == years with owner earnings",
			allPositive, func(v decimal.Decimal) bool { return v.Equal(totalOe) }),
		check(7, "Low Capex Ratio", fmt.Sprintf("capex/owner earnings < %s%%", t.MaxCapexRatio),
			m.CapexRatio, lt(t.MaxCapexRatio)),
		check(8, "Consistent Capital Return", fmt.Sprintf(">= %s of years", t.MinCapitalReturnShare),
			returnShare, gte(t.MinCapitalReturnShare)),
		check(9, "Debt-to-Equity", fmt.Sprintf("debt/equity < %s", t.MaxDebtToEquity),
			m.DebtToEquityRatio, lt(t.MaxDebtToEquity)),
		check(10, "Interest Coverage", fmt.Sprintf("operating income/interest expense > %sx", t.MinInterestCoverage),
			m.InterestCoverage, gt(t.MinInterestCoverage)),
		check(11, "History", fmt.Sprintf("years of data >= %d", t.MinYears),
			present(decimal.NewFromInt(int64(years))), gte(decimal.NewFromInt(int64(t.MinYears)))),
		check(12, "Estimated Return (OE) Floor", fmt.Sprintf("> %s%%", t.MinEstimatedReturn),
			m.EstimatedReturnOE, gt(t.MinEstimatedReturn)),
		check(13, "Estimated Return (OE) Cap", fmt.Sprintf("< %s%%", t.MaxEstimatedReturn),
			m.EstimatedReturnOE, lt(t.MaxEstimatedReturn)),
	}
}
