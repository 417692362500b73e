package fundamentals

import (
	"github.com/shopspring/decimal"
)

// YearConceptMap maps concept name to value for a single fiscal year
type YearConceptMap map[string]decimal.Decimal

// Resolve returns the value of the first chain alias present in m, or def
func Resolve(m YearConceptMap, chain Chain, def decimal.Decimal) decimal.Decimal {
	for _, name := range chain {
		if v, ok := m[name]; ok {
			return v
		}
	}
	return def
}

// ResolveOptional is Resolve with absence as the default
func ResolveOptional(m YearConceptMap, chain Chain) decimal.NullDecimal {
	for _, name := range chain {
		if v, ok := m[name]; ok {
			return decimal.NewNullDecimal(v)
		}
	}
	return decimal.NullDecimal{}
}

// resolveWithName also reports which alias matched
func resolveWithName(m YearConceptMap, chain Chain) (string, decimal.Decimal, bool) {
	for _, name := range chain {
		if v, ok := m[name]; ok {
			return name, v, true
		}
	}
	return "", decimal.Zero, false
}

// sumPresent adds the resolved value of every chain that resolves. found is false
// when none of them did.
func sumPresent(m YearConceptMap, chains ...Chain) (total decimal.Decimal, found bool) {
	total = decimal.Zero
	for _, chain := range chains {
		if v := ResolveOptional(m, chain); v.Valid {
			total = total.Add(v.Decimal)
			found = true
		}
	}
	return total, found
}
