package contracts

import (
	"github.com/shopspring/decimal"
)

// ScoreKind selects one of the two scorecards
type ScoreKind string

const (
	KindValue ScoreKind = "value"
	KindMoat  ScoreKind = "moat"
)

// ParseScoreKind validates a kind coming from a URL or CLI flag
func ParseScoreKind(s string) (ScoreKind, bool) {
	switch ScoreKind(s) {
	case KindValue:
		return KindValue, true
	case KindMoat:
		return KindMoat, true
	default:
		return "", false
	}
}

// CheckResult is the outcome of a single scorecard check
type CheckResult string

const (
	CheckPass         CheckResult = "PASS"
	CheckFail         CheckResult = "FAIL"
	CheckNotAvailable CheckResult = "NA"
)

// ScoringCheck is one row of a 13-check scorecard
type ScoringCheck struct {
	Number    int                 `json:"check_number"`
	Name      string              `json:"name"`
	Value     decimal.NullDecimal `json:"computed_value"`
	Threshold string              `json:"threshold"`
	Result    CheckResult         `json:"result"`
}

// ValueMetrics holds the Graham-style derived metrics
type ValueMetrics struct {
	BookValue                decimal.NullDecimal `json:"book_value"`
	MarketCap                decimal.NullDecimal `json:"market_cap"`
	DebtToEquityRatio        decimal.NullDecimal `json:"debt_to_equity_ratio"`
	PriceToBookRatio         decimal.NullDecimal `json:"price_to_book_ratio"`
	DebtToBookRatio          decimal.NullDecimal `json:"debt_to_book_ratio"`
	AdjustedRetainedEarnings decimal.NullDecimal `json:"adjusted_retained_earnings"`
	OldestRetainedEarnings   decimal.NullDecimal `json:"oldest_retained_earnings"`
	AverageNetCashFlow       decimal.NullDecimal `json:"average_net_cash_flow"`
	AverageOwnerEarnings     decimal.NullDecimal `json:"average_owner_earnings"`
	EstimatedReturnCF        decimal.NullDecimal `json:"estimated_return_cf"`
	EstimatedReturnOE        decimal.NullDecimal `json:"estimated_return_oe"`
	CurrentDividendsPaid     decimal.NullDecimal `json:"current_dividends_paid"`
}

// MoatMetrics holds the Buffett-style derived metrics
type MoatMetrics struct {
	AverageGrossMargin      decimal.NullDecimal `json:"average_gross_margin"`
	AverageOperatingMargin  decimal.NullDecimal `json:"average_operating_margin"`
	AverageRoeCF            decimal.NullDecimal `json:"average_roe_cf"`
	AverageRoeOE            decimal.NullDecimal `json:"average_roe_oe"`
	RevenueCagr             decimal.NullDecimal `json:"revenue_cagr"`
	CapexRatio              decimal.NullDecimal `json:"capex_ratio"`
	InterestCoverage        decimal.NullDecimal `json:"interest_coverage"`
	DebtToEquityRatio       decimal.NullDecimal `json:"debt_to_equity_ratio"`
	EstimatedReturnOE       decimal.NullDecimal `json:"estimated_return_oe"`
	CurrentDividendsPaid    decimal.NullDecimal `json:"current_dividends_paid"`
	MarketCap               decimal.NullDecimal `json:"market_cap"`
	PricePerShare           decimal.NullDecimal `json:"price_per_share"`
	PositiveOeYears         int                 `json:"positive_oe_years"`
	TotalOeYears            int                 `json:"total_oe_years"`
	CapitalReturnYears      int                 `json:"capital_return_years"`
	TotalCapitalReturnYears int                 `json:"total_capital_return_years"`
}

// MoatYearMetrics is one row of the moat trend series (charting only)
type MoatYearMetrics struct {
	Year               int                 `json:"year"`
	GrossMarginPct     decimal.NullDecimal `json:"gross_margin_pct"`
	OperatingMarginPct decimal.NullDecimal `json:"operating_margin_pct"`
	RoeCFPct           decimal.NullDecimal `json:"roe_cf_pct"`
	RoeOEPct           decimal.NullDecimal `json:"roe_oe_pct"`
	Revenue            decimal.NullDecimal `json:"revenue"`
}

// ValueScore is the complete value scorecard for one company
// ⭐ SSOT: scoring → presentation contract (value)
type ValueScore struct {
	CompanyID        int64                              `json:"company_id"`
	PerYearFacts     map[int]map[string]decimal.Decimal `json:"per_year_facts"`
	Metrics          ValueMetrics                       `json:"metrics"`
	Checks           []ScoringCheck                     `json:"checks"`
	OverallScore     int                                `json:"overall_score"`
	ComputableChecks int                                `json:"computable_checks"`
	YearsOfData      int                                `json:"years_of_data"`
	Price            PriceSnapshot                      `json:"price"`
}

// MoatScore is the complete moat scorecard for one company
// ⭐ SSOT: scoring → presentation contract (moat)
type MoatScore struct {
	CompanyID        int64                              `json:"company_id"`
	PerYearFacts     map[int]map[string]decimal.Decimal `json:"per_year_facts"`
	Metrics          MoatMetrics                        `json:"metrics"`
	Checks           []ScoringCheck                     `json:"checks"`
	Trend            []MoatYearMetrics                  `json:"trend"`
	OverallScore     int                                `json:"overall_score"`
	ComputableChecks int                                `json:"computable_checks"`
	YearsOfData      int                                `json:"years_of_data"`
	Price            PriceSnapshot                      `json:"price"`
}

// ScoreSummary is the per-company record emitted by batch scoring
type ScoreSummary struct {
	CompanyID        int64               `json:"company_id"`
	Kind             ScoreKind           `json:"kind"`
	OverallScore     int                 `json:"overall_score"`
	ComputableChecks int                 `json:"computable_checks"`
	YearsOfData      int                 `json:"years_of_data"`
	MarketCap        decimal.NullDecimal `json:"market_cap"`
	EstimatedReturn  decimal.NullDecimal `json:"estimated_return_oe"`
}

// TallyChecks counts passes and computable checks
func TallyChecks(checks []ScoringCheck) (passed int, computable int) {
	for _, c := range checks {
		switch c.Result {
		case CheckPass:
			passed++
			computable++
		case CheckFail:
			computable++
		}
	}
	return passed, computable
}

// Summary reduces a value scorecard to its batch record
func (s *ValueScore) Summary() ScoreSummary {
	return ScoreSummary{
		CompanyID:        s.CompanyID,
		Kind:             KindValue,
		OverallScore:     s.OverallScore,
		ComputableChecks: s.ComputableChecks,
		YearsOfData:      s.YearsOfData,
		MarketCap:        s.Metrics.MarketCap,
		EstimatedReturn:  s.Metrics.EstimatedReturnOE,
	}
}

// Summary reduces a moat scorecard to its batch record
func (s *MoatScore) Summary() ScoreSummary {
	return ScoreSummary{
		CompanyID:        s.CompanyID,
		Kind:             KindMoat,
		OverallScore:     s.OverallScore,
		ComputableChecks: s.ComputableChecks,
		YearsOfData:      s.YearsOfData,
		MarketCap:        s.Metrics.MarketCap,
		EstimatedReturn:  s.Metrics.EstimatedReturnOE,
	}
}
