package fundamentals

import (
	"github.com/shopspring/decimal"
)

// Point-in-time balance sheet lines

// Goodwill returns goodwill, zero when unreported
func Goodwill(m YearConceptMap) decimal.Decimal {
	return Resolve(m, chainGoodwill, decimal.Zero)
}

// Intangibles returns intangible assets excluding goodwill, zero when unreported
func Intangibles(m YearConceptMap) decimal.Decimal {
	return Resolve(m, chainIntangibles, decimal.Zero)
}

// Debt returns long-term debt, absent when unreported
func Debt(m YearConceptMap) decimal.NullDecimal {
	return ResolveOptional(m, chainDebt)
}

// RetainedEarnings returns retained earnings or accumulated deficit
func RetainedEarnings(m YearConceptMap) decimal.NullDecimal {
	return ResolveOptional(m, chainRetainedEarnings)
}

// Cash returns the year-end cash balance
func Cash(m YearConceptMap) decimal.NullDecimal {
	return ResolveOptional(m, chainCash)
}

// Income statement lines

// NetIncome returns net income attributable to the company
func NetIncome(m YearConceptMap) decimal.NullDecimal {
	return ResolveOptional(m, chainNetIncome)
}

// Revenue returns total revenue
func Revenue(m YearConceptMap) decimal.NullDecimal {
	return ResolveOptional(m, chainRevenue)
}

// GrossProfit prefers the tagged figure, else revenue − cost of revenue
func GrossProfit(m YearConceptMap) decimal.NullDecimal {
	if gp := ResolveOptional(m, chainGrossProfit); gp.Valid {
		return gp
	}
	revenue := ResolveOptional(m, chainRevenue)
	cost := ResolveOptional(m, chainCostOfRevenue)
	if revenue.Valid && cost.Valid {
		return decimal.NewNullDecimal(revenue.Decimal.Sub(cost.Decimal))
	}
	return decimal.NullDecimal{}
}

// OperatingIncome returns operating income or loss
func OperatingIncome(m YearConceptMap) decimal.NullDecimal {
	return ResolveOptional(m, chainOperatingIncome)
}

// InterestExpense returns interest expense
func InterestExpense(m YearConceptMap) decimal.NullDecimal {
	return ResolveOptional(m, chainInterestExpense)
}

// Cash flow statement lines

// GrossCashFlow is the change in cash for the year: the tagged change when present,
// else this year's cash balance minus the prior year's.
func GrossCashFlow(m YearConceptMap, prev YearConceptMap) decimal.NullDecimal {
	if change := ResolveOptional(m, chainCashChange); change.Valid {
		return change
	}
	if prev == nil {
		return decimal.NullDecimal{}
	}
	end := Cash(m)
	begin := Cash(prev)
	if end.Valid && begin.Valid {
		return decimal.NewNullDecimal(end.Decimal.Sub(begin.Decimal))
	}
	return decimal.NullDecimal{}
}

// NetDebtIssuance is debt raised minus debt repaid, including net short-term borrowing
func NetDebtIssuance(m YearConceptMap) decimal.Decimal {
	return Resolve(m, chainDebtProceeds, decimal.Zero).
		Sub(Resolve(m, chainDebtRepayments, decimal.Zero)).
		Add(Resolve(m, chainShortTermDebtNet, decimal.Zero))
}

// NetStockIssuance is common stock issued minus repurchased
func NetStockIssuance(m YearConceptMap) decimal.Decimal {
	return Resolve(m, chainStockProceeds, decimal.Zero).
		Sub(Resolve(m, chainStockRepurchases, decimal.Zero))
}

// NetPreferredIssuance is preferred stock issued minus redeemed
func NetPreferredIssuance(m YearConceptMap) decimal.Decimal {
	return Resolve(m, chainPreferredProceeds, decimal.Zero).
		Sub(Resolve(m, chainPreferredRedemptions, decimal.Zero))
}

// Dividends returns dividends paid, zero when unreported
func Dividends(m YearConceptMap) decimal.Decimal {
	return Resolve(m, chainDividends, decimal.Zero)
}

// Buybacks returns common stock repurchases, zero when unreported
func Buybacks(m YearConceptMap) decimal.Decimal {
	return Resolve(m, chainStockRepurchases, decimal.Zero)
}

// CapEx returns capital expenditure, zero when unreported
func CapEx(m YearConceptMap) decimal.Decimal {
	return Resolve(m, chainCapEx, decimal.Zero)
}
