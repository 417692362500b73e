package fundamentals

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/factscore/internal/contracts"
)

// SignLookup returns the balance sign of a concept
type SignLookup interface {
	Sign(concept string) contracts.BalanceSign
}

// Equity resolves common stockholders' equity for one year.
//
// The balance-sheet identity is preferred over a direct equity tag because direct
// tags are sometimes only reported in the equity roll-forward note and go stale.
// The identity covers every equity holder, so noncontrolling and redeemable
// noncontrolling interest are taken out. The direct tags already exclude them.
func Equity(m YearConceptMap) decimal.NullDecimal {
	liabilities := ResolveOptional(m, chainLiabilities)
	if liabilities.Valid {
		total := ResolveOptional(m, chainLiabilitiesAndEquity)
		if !total.Valid {
			total = ResolveOptional(m, chainAssets)
		}
		if total.Valid {
			equity := total.Decimal.Sub(liabilities.Decimal).
				Sub(Resolve(m, chainNoncontrollingInterest, decimal.Zero)).
				Sub(Resolve(m, chainRedeemableNoncontrollingInterest, decimal.Zero))
			return decimal.NewNullDecimal(equity)
		}
	}
	return ResolveOptional(m, chainDirectEquity)
}

// WorkingCapitalChange returns the cash effect of working-capital movements.
// Unlike Equity it is never absent: with nothing reported it is zero, so owner
// earnings always receive a number from it.
func WorkingCapitalChange(m YearConceptMap, signs SignLookup) decimal.Decimal {
	if name, v, ok := resolveWithName(m, chainWorkingCapitalAggregate); ok {
		return cashEffect(signs, name, v)
	}

	wc := &workingCapital{m: m, signs: signs, total: decimal.Zero}
	wc.either(chainReceivablesCombined, chainAccountsReceivable, chainOtherReceivables)
	wc.either(chainInventories)
	wc.either(chainPayablesAccruedCombined, chainAccountsPayable, chainAccruedLiabilities)
	wc.either(chainPrepaidDeferred)
	wc.either(chainDeferredRevenue, chainContractLiability)
	wc.either(chainOtherOperatingAssets, chainOtherCurrentAssets, chainOtherNoncurrentAssets)
	wc.either(chainOtherOperatingLiabilities, chainOtherCurrentLiabilities, chainOtherNoncurrentLiabilities)
	wc.either(chainAccruedIncomeTaxesPayable)

	if !wc.found {
		return decimal.Zero
	}
	return wc.total
}

type workingCapital struct {
	m     YearConceptMap
	signs SignLookup
	total decimal.Decimal
	found bool
}

// either adds the combined chain when present, otherwise every split chain present
func (w *workingCapital) either(combined Chain, split ...Chain) {
	if name, v, ok := resolveWithName(w.m, combined); ok {
		w.total = w.total.Add(cashEffect(w.signs, name, v))
		w.found = true
		return
	}
	for _, chain := range split {
		if name, v, ok := resolveWithName(w.m, chain); ok {
			w.total = w.total.Add(cashEffect(w.signs, name, v))
			w.found = true
		}
	}
}

// cashEffect flips credit-balance movements: an increase in an operating asset
// consumes cash.
func cashEffect(signs SignLookup, concept string, v decimal.Decimal) decimal.Decimal {
	if signs != nil && signs.Sign(concept) == contracts.BalanceCredit {
		return v.Neg()
	}
	return v
}

// DepletionAndAmortization returns depletion plus amortization, deriving it from
// DDA − depreciation when neither is tagged directly. Zero when nothing applies.
func DepletionAndAmortization(m YearConceptMap) decimal.Decimal {
	if total, found := sumPresent(m, chainAmortization, chainDepletion); found {
		return total
	}
	if dda := ResolveOptional(m, chainDDA); dda.Valid {
		return dda.Decimal.Sub(Resolve(m, chainDepreciation, decimal.Zero))
	}
	return decimal.Zero
}

// DeferredTax returns deferred income tax expense, summing the federal, foreign and
// state components when no total is tagged. Zero when nothing applies.
func DeferredTax(m YearConceptMap) decimal.Decimal {
	if v := ResolveOptional(m, chainDeferredTax); v.Valid {
		return v.Decimal
	}
	if total, found := sumPresent(m, chainDeferredTaxFederal, chainDeferredTaxForeign, chainDeferredTaxState); found {
		return total
	}
	return decimal.Zero
}

// OtherNonCash sums the remaining non-cash add-backs
func OtherNonCash(m YearConceptMap) decimal.Decimal {
	total, _ := sumPresent(m, chainShareBasedComp, chainImpairment, chainOtherNoncashExpense)
	return total
}
