package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/fundamentals"
	"github.com/wonny/factscore/pkg/logger"
)

func TestValueEngine_TwoYearCompany(t *testing.T) {
	engine := newValueEngine()
	p := fundamentals.Partition(twoYearFacts(1))

	score := engine.Score(1, p, priceOf(1, 300, 1))
	m := score.Metrics

	assertPresent(t, "105", m.BookValue)
	assertPresent(t, "300", m.MarketCap)
	assertPresent(t, "16.5", m.AverageNetCashFlow)
	assertPresent(t, "17", m.AverageOwnerEarnings)
	assertPresent(t, "80", m.AdjustedRetainedEarnings)
	assertPresent(t, "60", m.OldestRetainedEarnings)
	assertPresent(t, "3", m.CurrentDividendsPaid)
	assertPresent(t, "4.5", m.EstimatedReturnCF)
	assertRounded(t, "4.67", m.EstimatedReturnOE)
	assertRounded(t, "0.29", m.DebtToEquityRatio)
	assertRounded(t, "2.86", m.PriceToBookRatio)
	assertRounded(t, "0.33", m.DebtToBookRatio)

	assertCheckOrder(t, score.Checks)
	want := map[int]contracts.CheckResult{
		1: contracts.CheckPass, 2: contracts.CheckFail, 3: contracts.CheckPass,
		4: contracts.CheckPass, 5: contracts.CheckPass, 6: contracts.CheckFail,
		7: contracts.CheckFail, 8: contracts.CheckPass, 9: contracts.CheckPass,
		10: contracts.CheckPass, 11: contracts.CheckPass, 12: contracts.CheckFail,
		13: contracts.CheckPass,
	}
	assert.Equal(t, want, resultsOf(score.Checks))

	assert.Equal(t, 9, score.OverallScore)
	assert.Equal(t, 13, score.ComputableChecks)
	assert.Equal(t, 2, score.YearsOfData)
	assert.Len(t, score.PerYearFacts, 2)
}

func TestValueEngine_MissingPrice(t *testing.T) {
	engine := newValueEngine()
	p := fundamentals.Partition(twoYearFacts(1))

	score := engine.Score(1, p, contracts.PriceSnapshot{CompanyID: 1})

	assert.False(t, score.Metrics.MarketCap.Valid)
	assert.False(t, score.Metrics.EstimatedReturnCF.Valid)
	assert.False(t, score.Metrics.EstimatedReturnOE.Valid)

	results := resultsOf(score.Checks)
	for _, n := range []int{3, 6, 7, 8, 9} {
		assert.Equal(t, contracts.CheckNotAvailable, results[n], "check %d", n)
	}
	assert.Equal(t, 8, score.ComputableChecks)
}

func TestValueEngine_SparseFacts(t *testing.T) {
	engine := newValueEngine()
	p := partitioned(yearFact(2024, "Revenues", 100))

	score := engine.Score(7, p, contracts.PriceSnapshot{})

	assertCheckOrder(t, score.Checks)
	results := resultsOf(score.Checks)
	assert.Equal(t, contracts.CheckFail, results[12], "history is always computable")
	for n := 1; n <= 13; n++ {
		if n == 12 {
			continue
		}
		assert.Equal(t, contracts.CheckNotAvailable, results[n], "check %d", n)
	}
	assert.Equal(t, 0, score.OverallScore)
	assert.Equal(t, 1, score.ComputableChecks)
	assert.Equal(t, 1, score.YearsOfData)
}

func TestValueEngine_NegativeEquityRatios(t *testing.T) {
	engine := newValueEngine()
	p := partitioned(
		yearFact(2024, "StockholdersEquity", -50),
		yearFact(2024, "LongTermDebt", 10),
	)

	score := engine.Score(1, p, priceOf(1, 10, 10))
	results := resultsOf(score.Checks)

	// ratios are taken as computed; the comparator decides
	assertPresent(t, "-0.2", score.Metrics.DebtToEquityRatio)
	assertPresent(t, "-2", score.Metrics.PriceToBookRatio)
	assertPresent(t, "-0.2", score.Metrics.DebtToBookRatio)
	assert.Equal(t, contracts.CheckPass, results[1])
	assert.Equal(t, contracts.CheckPass, results[3])
	assert.Equal(t, contracts.CheckPass, results[10])
	assertPresent(t, "-0.2", score.Checks[0].Value)
	assert.Equal(t, contracts.CheckFail, results[2], "negative book value is below the floor")
}

func TestValueEngine_ZeroEquityRatiosAreNotAvailable(t *testing.T) {
	engine := newValueEngine()
	p := partitioned(
		yearFact(2024, "StockholdersEquity", 0),
		yearFact(2024, "LongTermDebt", 10),
	)

	score := engine.Score(1, p, priceOf(1, 10, 10))
	results := resultsOf(score.Checks)

	assertPresent(t, "0", score.Metrics.BookValue)
	assert.False(t, score.Metrics.DebtToEquityRatio.Valid)
	assert.False(t, score.Metrics.PriceToBookRatio.Valid)
	assert.False(t, score.Metrics.DebtToBookRatio.Valid)
	for _, n := range []int{1, 3, 10} {
		assert.Equal(t, contracts.CheckNotAvailable, results[n], "check %d", n)
	}
}

func TestValueEngine_OwnerEarningsWithoutWorkingCapital(t *testing.T) {
	engine := newValueEngine()
	p := partitioned(yearFact(2024, "NetIncomeLoss", 10))

	score := engine.Score(1, p, contracts.PriceSnapshot{})

	assertPresent(t, "10", score.Metrics.AverageOwnerEarnings)
	assert.False(t, score.Metrics.AverageNetCashFlow.Valid)
}

func TestValueEngine_OwnerEarningsAddBacks(t *testing.T) {
	engine := newValueEngine()
	p := partitioned(
		yearFact(2024, "NetIncomeLoss", 100),
		yearFact(2024, "DepreciationDepletionAndAmortization", 30),
		yearFact(2024, "Depreciation", 20),
		yearFact(2024, "DeferredIncomeTaxExpenseBenefit", 5),
		yearFact(2024, "ShareBasedCompensation", 7),
		yearFact(2024, "PaymentsToAcquirePropertyPlantAndEquipment", 40),
		yearFact(2024, "IncreaseDecreaseInAccountsReceivable", 12),
	)

	score := engine.Score(1, p, contracts.PriceSnapshot{})

	// 100 + 10 + 5 + 7 - 40 - 12
	assertPresent(t, "70", score.Metrics.AverageOwnerEarnings)
}

func TestValueEngine_NetCashFlowFromBalances(t *testing.T) {
	engine := newValueEngine()
	p := partitioned(
		yearFact(2023, "CashAndCashEquivalentsAtCarryingValue", 100),
		yearFact(2024, "CashAndCashEquivalentsAtCarryingValue", 160),
		yearFact(2024, "ProceedsFromIssuanceOfLongTermDebt", 50),
		yearFact(2024, "PaymentsForRepurchaseOfCommonStock", 10),
	)

	score := engine.Score(1, p, contracts.PriceSnapshot{})

	// 2023 has no prior year; 2024: 60 - (50 - 10)
	assertPresent(t, "20", score.Metrics.AverageNetCashFlow)
}

func TestValueEngine_Idempotent(t *testing.T) {
	engine := newValueEngine()
	p := fundamentals.Partition(twoYearFacts(1))
	price := priceOf(1, 300, 1)

	first := engine.Score(1, p, price)
	second := engine.Score(1, p, price)

	assert.Equal(t, first, second)
}

func TestValueEngine_CustomThresholds(t *testing.T) {
	th := DefaultValueThresholds()
	th.MinBookValue = decimal.NewFromInt(100)
	th.MinYears = 2
	engine := NewValueEngine(th, logger.NewNop())

	score := engine.Score(1, fundamentals.Partition(twoYearFacts(1)), priceOf(1, 300, 1))

	results := resultsOf(score.Checks)
	assert.Equal(t, contracts.CheckPass, results[2])
	assert.Equal(t, contracts.CheckPass, results[12])
	assert.Equal(t, 11, score.OverallScore)
	assert.Equal(t, "book value > 100", score.Checks[1].Threshold)
}
