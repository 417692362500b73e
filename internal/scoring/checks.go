package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/factscore/internal/contracts"
)

var hundred = decimal.NewFromInt(100)

// check builds a scorecard row. NA when value is absent.
func check(number int, name, threshold string, value decimal.NullDecimal, pass func(decimal.Decimal) bool) contracts.ScoringCheck {
	c := contracts.ScoringCheck{
		Number:    number,
		Name:      name,
		Value:     value,
		Threshold: threshold,
		Result:    contracts.CheckNotAvailable,
	}
	if !value.Valid {
		return c
	}
	if pass(value.Decimal) {
		c.Result = contracts.CheckPass
	} else {
		c.Result = contracts.CheckFail
	}
	return c
}

// ratio is num/den, absent unless both are present and den ≠ 0
func ratio(num, den decimal.NullDecimal) decimal.NullDecimal {
	if !num.Valid || !den.Valid || den.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(num.Decimal.Div(den.Decimal))
}

// percentOf is 100 × num/den, absent unless both are present and den ≠ 0
func percentOf(num, den decimal.NullDecimal) decimal.NullDecimal {
	if !num.Valid || !den.Valid || den.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(num.Decimal.Mul(hundred).Div(den.Decimal))
}

// estimatedReturn is 100 × (average − dividends) / market cap
func estimatedReturn(average, dividends, marketCap decimal.NullDecimal) decimal.NullDecimal {
	if !average.Valid || !dividends.Valid || !marketCap.Valid || marketCap.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(average.Decimal.Sub(dividends.Decimal).Mul(hundred).Div(marketCap.Decimal))
}

// marketCap is price × shares outstanding
func marketCap(price contracts.PriceSnapshot) decimal.NullDecimal {
	if !price.PricePerShare.Valid || !price.SharesOutstanding.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(price.PricePerShare.Decimal.Mul(price.SharesOutstanding.Decimal))
}

// runningMean accumulates a sum over the years a value was computable
type runningMean struct {
	sum   decimal.Decimal
	count int
}

func (r *runningMean) add(v decimal.NullDecimal) {
	if !v.Valid {
		return
	}
	r.sum = r.sum.Add(v.Decimal)
	r.count++
}

func (r *runningMean) mean() decimal.NullDecimal {
	if r.count == 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(r.sum.Div(decimal.NewFromInt(int64(r.count))))
}

func present(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}

func lt(limit decimal.Decimal) func(decimal.Decimal) bool {
	return func(v decimal.Decimal) bool { return v.LessThan(limit) }
}

func lte(limit decimal.Decimal) func(decimal.Decimal) bool {
	return func(v decimal.Decimal) bool { return v.LessThanOrEqual(limit) }
}

func gt(limit decimal.Decimal) func(decimal.Decimal) bool {
	return func(v decimal.Decimal) bool { return v.GreaterThan(limit) }
}

func gte(limit decimal.Decimal) func(decimal.Decimal) bool {
	return func(v decimal.Decimal) bool { return v.GreaterThanOrEqual(limit) }
}
