package scoreconfig

import (
	"fmt"
	"math"
)

// ValidationError names the first rule that is out of range
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Value ===
	v := cfg.Value
	checks := []struct {
		field string
		value float64
	}{
		{"value.max_debt_to_equity", v.MaxDebtToEquity},
		{"value.max_price_to_book", v.MaxPriceToBook},
		{"value.max_debt_to_book", v.MaxDebtToBook},
		{"value.max_estimated_return_pct", v.MaxEstimatedReturn},
	}
	for _, c := range checks {
		if err := positive(c.field, c.value); err != nil {
			return err
		}
	}
	if v.MinBookValue < 0 || !finite(v.MinBookValue) {
		return ValidationError{"value.min_book_value", "must be >= 0"}
	}
	if v.MinEstimatedReturn >= v.MaxEstimatedReturn {
		return ValidationError{"value.min_estimated_return_pct", "must be < max_estimated_return_pct"}
	}
	if v.MinYears < 1 {
		return ValidationError{"value.min_years", "must be >= 1"}
	}

	// === Moat ===
	m := cfg.Moat
	checks = []struct {
		field string
		value float64
	}{
		{"moat.max_capex_ratio_pct", m.MaxCapexRatio},
		{"moat.max_debt_to_equity", m.MaxDebtToEquity},
		{"moat.min_interest_coverage", m.MinInterestCoverage},
		{"moat.max_estimated_return_pct", m.MaxEstimatedReturn},
	}
	for _, c := range checks {
		if err := positive(c.field, c.value); err != nil {
			return err
		}
	}
	for field, value := range map[string]float64{
		"moat.min_roe_cf_pct":           m.MinRoeCF,
		"moat.min_roe_oe_pct":           m.MinRoeOE,
		"moat.min_gross_margin_pct":     m.MinGrossMargin,
		"moat.min_operating_margin_pct": m.MinOperatingMargin,
		"moat.min_revenue_cagr_pct":     m.MinRevenueCagr,
	} {
		if !finite(value) {
			return ValidationError{field, "must be finite"}
		}
	}
	if m.MinCapitalReturnShare < 0 || m.MinCapitalReturnShare > 1 {
		return ValidationError{"moat.min_capital_return_share", "must be in [0, 1]"}
	}
	if m.MinEstimatedReturn >= m.MaxEstimatedReturn {
		return ValidationError{"moat.min_estimated_return_pct", "must be < max_estimated_return_pct"}
	}
	if m.MinYears < 1 {
		return ValidationError{"moat.min_years", "must be >= 1"}
	}

	return nil
}

func positive(field string, value float64) error {
	if value <= 0 || !finite(value) {
		return ValidationError{field, "must be > 0"}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
