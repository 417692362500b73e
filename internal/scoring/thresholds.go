package scoring

import (
	"github.com/shopspring/decimal"
)

// ValueThresholds parameterizes the value scorecard
type ValueThresholds struct {
	MaxDebtToEquity    decimal.Decimal
	MinBookValue       decimal.Decimal
	MaxPriceToBook     decimal.Decimal
	MinEstimatedReturn decimal.Decimal // percent
	MaxEstimatedReturn decimal.Decimal // percent
	MaxDebtToBook      decimal.Decimal
	MinYears           int
}

// MoatThresholds parameterizes the moat scorecard
type MoatThresholds struct {
	MinRoeCF              decimal.Decimal // percent
	MinRoeOE              decimal.Decimal // percent
	MinGrossMargin        decimal.Decimal // percent
	MinOperatingMargin    decimal.Decimal // percent
	MinRevenueCagr        decimal.Decimal // percent
	MaxCapexRatio         decimal.Decimal // percent
	MinCapitalReturnShare decimal.Decimal // fraction of years
	MaxDebtToEquity       decimal.Decimal
	MinInterestCoverage   decimal.Decimal
	MinYears              int
	MinEstimatedReturn    decimal.Decimal // percent
	MaxEstimatedReturn    decimal.Decimal // percent
}

// DefaultValueThresholds is the standard Graham-style rule set
func DefaultValueThresholds() ValueThresholds {
	return ValueThresholds{
		MaxDebtToEquity:    decimal.RequireFromString("0.5"),
		MinBookValue:       decimal.NewFromInt(150_000_000),
		MaxPriceToBook:     decimal.NewFromInt(3),
		MinEstimatedReturn: decimal.NewFromInt(5),
		MaxEstimatedReturn: decimal.NewFromInt(40),
		MaxDebtToBook:      decimal.NewFromInt(1),
		MinYears:           4,
	}
}

// DefaultMoatThresholds is the standard Buffett-style rule set
func DefaultMoatThresholds() MoatThresholds {
	return MoatThresholds{
		MinRoeCF:              decimal.NewFromInt(15),
		MinRoeOE:              decimal.NewFromInt(15),
		MinGrossMargin:        decimal.NewFromInt(40),
		MinOperatingMargin:    decimal.NewFromInt(15),
		MinRevenueCagr:        decimal.NewFromInt(3),
		MaxCapexRatio:         decimal.NewFromInt(50),
		MinCapitalReturnShare: decimal.RequireFromString("0.75"),
		MaxDebtToEquity:       decimal.NewFromInt(1),
		MinInterestCoverage:   decimal.NewFromInt(5),
		MinYears:              7,
		MinEstimatedReturn:    decimal.NewFromInt(3),
		MaxEstimatedReturn:    decimal.NewFromInt(40),
	}
}
