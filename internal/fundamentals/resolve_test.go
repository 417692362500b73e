package fundamentals

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/factscore/internal/contracts"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func assertPresent(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid, "expected a value, got absent")
	assertDecimal(t, want, got.Decimal)
}

// signMap is a fixed SignLookup for tests
type signMap map[string]contracts.BalanceSign

func (s signMap) Sign(concept string) contracts.BalanceSign {
	return s[concept]
}

func TestResolve(t *testing.T) {
	chain := Chain{"A", "B", "C"}

	tests := []struct {
		name string
		m    YearConceptMap
		want string
	}{
		{"first alias present wins", YearConceptMap{"B": d(5), "C": d(9)}, "5"},
		{"highest priority", YearConceptMap{"C": d(9), "A": d(1), "B": d(5)}, "1"},
		{"default when none present", YearConceptMap{"D": d(3)}, "-1"},
		{"nil map", nil, "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, Resolve(tt.m, chain, d(-1)))
		})
	}
}

func TestResolve_OrderIndependent(t *testing.T) {
	chain := Chain{"A", "B", "C"}
	// Map iteration order is randomized; resolve many times
	for i := 0; i < 50; i++ {
		m := YearConceptMap{"C": d(9), "B": d(5), "X": d(1)}
		assertDecimal(t, "5", Resolve(m, chain, decimal.Zero))
	}
}

func TestResolveOptional(t *testing.T) {
	assert.False(t, ResolveOptional(YearConceptMap{}, Chain{"A"}).Valid)

	got := ResolveOptional(YearConceptMap{"A": decimal.Zero}, Chain{"A"})
	assertPresent(t, "0", got)
}

func TestSumPresent(t *testing.T) {
	total, found := sumPresent(YearConceptMap{"A": d(2), "C": d(3)}, Chain{"A"}, Chain{"B"}, Chain{"C"})
	assert.True(t, found)
	assertDecimal(t, "5", total)

	total, found = sumPresent(YearConceptMap{}, Chain{"A"})
	assert.False(t, found)
	assertDecimal(t, "0", total)
}

func TestConcepts(t *testing.T) {
	value := ValueConcepts()
	moat := MoatConcepts()

	seen := make(map[string]bool)
	for _, c := range value {
		assert.False(t, seen[c], "duplicate concept %s", c)
		seen[c] = true
	}

	moatSet := make(map[string]bool)
	for _, c := range moat {
		moatSet[c] = true
	}
	for _, c := range value {
		assert.True(t, moatSet[c], "moat concepts missing %s", c)
	}

	assert.Contains(t, moat, "Revenues")
	assert.Contains(t, moat, "OperatingIncomeLoss")
	assert.NotContains(t, value, "Revenues")
	assert.Contains(t, value, "StockholdersEquity")
}
