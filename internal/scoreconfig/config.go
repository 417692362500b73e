package scoreconfig

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/factscore/internal/scoring"
)

// Config is a versioned rule-set file for both scorecards
type Config struct {
	Meta  Meta       `yaml:"meta" json:"meta"`
	Value ValueRules `yaml:"value" json:"value"`
	Moat  MoatRules  `yaml:"moat" json:"moat"`
}

// Meta identifies the rule set
type Meta struct {
	ProfileID string `yaml:"profile_id" json:"profile_id"`
	Version   string `yaml:"version" json:"version"`
}

// ValueRules mirrors scoring.ValueThresholds
type ValueRules struct {
	MaxDebtToEquity    float64 `yaml:"max_debt_to_equity" json:"max_debt_to_equity"`
	MinBookValue       float64 `yaml:"min_book_value" json:"min_book_value"`
	MaxPriceToBook     float64 `yaml:"max_price_to_book" json:"max_price_to_book"`
	MinEstimatedReturn float64 `yaml:"min_estimated_return_pct" json:"min_estimated_return_pct"`
	MaxEstimatedReturn float64 `yaml:"max_estimated_return_pct" json:"max_estimated_return_pct"`
	MaxDebtToBook      float64 `yaml:"max_debt_to_book" json:"max_debt_to_book"`
	MinYears           int     `yaml:"min_years" json:"min_years"`
}

// MoatRules mirrors scoring.MoatThresholds
type MoatRules struct {
	MinRoeCF              float64 `yaml:"min_roe_cf_pct" json:"min_roe_cf_pct"`
	MinRoeOE              float64 `yaml:"min_roe_oe_pct" json:"min_roe_oe_pct"`
	MinGrossMargin        float64 `yaml:"min_gross_margin_pct" json:"min_gross_margin_pct"`
	MinOperatingMargin    float64 `yaml:"min_operating_margin_pct" json:"min_operating_margin_pct"`
	MinRevenueCagr        float64 `yaml:"min_revenue_cagr_pct" json:"min_revenue_cagr_pct"`
	MaxCapexRatio         float64 `yaml:"max_capex_ratio_pct" json:"max_capex_ratio_pct"`
	MinCapitalReturnShare float64 `yaml:"min_capital_return_share" json:"min_capital_return_share"` // 0..1
	MaxDebtToEquity       float64 `yaml:"max_debt_to_equity" json:"max_debt_to_equity"`
	MinInterestCoverage   float64 `yaml:"min_interest_coverage" json:"min_interest_coverage"`
	MinYears              int     `yaml:"min_years" json:"min_years"`
	MinEstimatedReturn    float64 `yaml:"min_estimated_return_pct" json:"min_estimated_return_pct"`
	MaxEstimatedReturn    float64 `yaml:"max_estimated_return_pct" json:"max_estimated_return_pct"`
}

// Defaults returns the built-in rule set
func Defaults() *Config {
	v := scoring.DefaultValueThresholds()
	m := scoring.DefaultMoatThresholds()
	return &Config{
		Meta: Meta{ProfileID: "default", Version: "1"},
		Value: ValueRules{
			MaxDebtToEquity:    v.MaxDebtToEquity.InexactFloat64(),
			MinBookValue:       v.MinBookValue.InexactFloat64(),
			MaxPriceToBook:     v.MaxPriceToBook.InexactFloat64(),
			MinEstimatedReturn: v.MinEstimatedReturn.InexactFloat64(),
			MaxEstimatedReturn: v.MaxEstimatedReturn.InexactFloat64(),
			MaxDebtToBook:      v.MaxDebtToBook.InexactFloat64(),
			MinYears:           v.MinYears,
		},
		Moat: MoatRules{
			MinRoeCF:              m.MinRoeCF.InexactFloat64(),
			MinRoeOE:              m.MinRoeOE.InexactFloat64(),
			MinGrossMargin:        m.MinGrossMargin.InexactFloat64(),
			MinOperatingMargin:    m.MinOperatingMargin.InexactFloat64(),
			MinRevenueCagr:        m.MinRevenueCagr.InexactFloat64(),
			MaxCapexRatio:         m.MaxCapexRatio.InexactFloat64(),
			MinCapitalReturnShare: m.MinCapitalReturnShare.InexactFloat64(),
			MaxDebtToEquity:       m.MaxDebtToEquity.InexactFloat64(),
			MinInterestCoverage:   m.MinInterestCoverage.InexactFloat64(),
			MinYears:              m.MinYears,
			MinEstimatedReturn:    m.MinEstimatedReturn.InexactFloat64(),
			MaxEstimatedReturn:    m.MaxEstimatedReturn.InexactFloat64(),
		},
	}
}

// ValueThresholds converts the value rules for the engine
func (c *Config) ValueThresholds() scoring.ValueThresholds {
	r := c.Value
	return scoring.ValueThresholds{
		MaxDebtToEquity:    decimal.NewFromFloat(r.MaxDebtToEquity),
		MinBookValue:       decimal.NewFromFloat(r.MinBookValue),
		MaxPriceToBook:     decimal.NewFromFloat(r.MaxPriceToBook),
		MinEstimatedReturn: decimal.NewFromFloat(r.MinEstimatedReturn),
		MaxEstimatedReturn: decimal.NewFromFloat(r.MaxEstimatedReturn),
		MaxDebtToBook:      decimal.NewFromFloat(r.MaxDebtToBook),
		MinYears:           r.MinYears,
	}
}

// MoatThresholds converts the moat rules for the engine
func (c *Config) MoatThresholds() scoring.MoatThresholds {
	r := c.Moat
	return scoring.MoatThresholds{
		MinRoeCF:              decimal.NewFromFloat(r.MinRoeCF),
		MinRoeOE:              decimal.NewFromFloat(r.MinRoeOE),
		MinGrossMargin:        decimal.NewFromFloat(r.MinGrossMargin),
		MinOperatingMargin:    decimal.NewFromFloat(r.MinOperatingMargin),
		MinRevenueCagr:        decimal.NewFromFloat(r.MinRevenueCagr),
		MaxCapexRatio:         decimal.NewFromFloat(r.MaxCapexRatio),
		MinCapitalReturnShare: decimal.NewFromFloat(r.MinCapitalReturnShare),
		MaxDebtToEquity:       decimal.NewFromFloat(r.MaxDebtToEquity),
		MinInterestCoverage:   decimal.NewFromFloat(r.MinInterestCoverage),
		MinYears:              r.MinYears,
		MinEstimatedReturn:    decimal.NewFromFloat(r.MinEstimatedReturn),
		MaxEstimatedReturn:    decimal.NewFromFloat(r.MaxEstimatedReturn),
	}
}
