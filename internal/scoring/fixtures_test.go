package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/fundamentals"
	"github.com/wonny/factscore/pkg/logger"
)

// twoYearFacts is a small company with two clean fiscal years
func twoYearFacts(companyID int64) []contracts.ConceptFact {
	rows := []struct {
		year    int
		concept string
		value   int64
	}{
		{2023, "StockholdersEquity", 100},
		{2023, "Goodwill", 10},
		{2023, "IntangibleAssetsNetExcludingGoodwill", 5},
		{2023, "LongTermDebt", 40},
		{2023, "RetainedEarningsAccumulatedDeficit", 60},
		{2023, "NetIncomeLoss", 20},
		{2023, "CashAndCashEquivalentsPeriodIncreaseDecrease", 15},
		{2023, "PaymentsToAcquirePropertyPlantAndEquipment", 5},
		{2023, "PaymentsOfDividends", 2},
		{2023, "Revenues", 100},
		{2023, "GrossProfit", 50},
		{2023, "OperatingIncomeLoss", 30},
		{2023, "InterestExpense", 3},

		{2024, "StockholdersEquity", 120},
		{2024, "Goodwill", 10},
		{2024, "IntangibleAssetsNetExcludingGoodwill", 5},
		{2024, "LongTermDebt", 35},
		{2024, "RetainedEarningsAccumulatedDeficit", 75},
		{2024, "NetIncomeLoss", 25},
		{2024, "CashAndCashEquivalentsPeriodIncreaseDecrease", 18},
		{2024, "PaymentsToAcquirePropertyPlantAndEquipment", 6},
		{2024, "PaymentsOfDividends", 3},
		{2024, "Revenues", 110},
		{2024, "GrossProfit", 60},
		{2024, "OperatingIncomeLoss", 33},
		{2024, "InterestExpense", 3},
	}

	facts := make([]contracts.ConceptFact, 0, len(rows))
	for _, r := range rows {
		facts = append(facts, contracts.ConceptFact{
			CompanyID:  companyID,
			Concept:    r.concept,
			Value:      decimal.NewFromInt(r.value),
			FiscalYear: r.year,
		})
	}
	return facts
}

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func priceOf(companyID int64, price, shares int64) contracts.PriceSnapshot {
	return contracts.PriceSnapshot{
		CompanyID:         companyID,
		PricePerShare:     decimal.NewNullDecimal(decimal.NewFromInt(price)),
		SharesOutstanding: decimal.NewNullDecimal(decimal.NewFromInt(shares)),
	}
}

func partitioned(facts ...contracts.ConceptFact) *fundamentals.PartitionedFacts {
	return fundamentals.Partition(facts)
}

func yearFact(year int, concept string, value int64) contracts.ConceptFact {
	return contracts.ConceptFact{CompanyID: 1, FiscalYear: year, Concept: concept, Value: decimal.NewFromInt(value)}
}

func newValueEngine() *ValueEngine {
	return NewValueEngine(DefaultValueThresholds(), logger.NewNop())
}

func newMoatEngine() *MoatEngine {
	return NewMoatEngine(DefaultMoatThresholds(), logger.NewNop())
}

func assertPresent(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid, "expected a value, got absent")
	assert.Truef(t, decimal.RequireFromString(want).Equal(got.Decimal), "want %s, got %s", want, got.Decimal)
}

func assertRounded(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid, "expected a value, got absent")
	assert.Equal(t, want, got.Decimal.StringFixed(2))
}

func resultsOf(checks []contracts.ScoringCheck) map[int]contracts.CheckResult {
	out := make(map[int]contracts.CheckResult, len(checks))
	for _, c := range checks {
		out[c.Number] = c.Result
	}
	return out
}

func assertCheckOrder(t *testing.T, checks []contracts.ScoringCheck) {
	t.Helper()
	require.Len(t, checks, 13)
	for i, c := range checks {
		assert.Equal(t, i+1, c.Number)
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Threshold)
	}
}
