package fundamentals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/factscore/internal/contracts"
)

func TestEquity(t *testing.T) {
	tests := []struct {
		name string
		m    YearConceptMap
		want string
	}{
		{
			name: "identity with noncontrolling interest",
			m: YearConceptMap{
				"LiabilitiesAndStockholdersEquity": d(500),
				"Liabilities":                      d(300),
				"MinorityInterest":                 d(20),
			},
			want: "180",
		},
		{
			name: "assets identity with redeemable interest",
			m: YearConceptMap{
				"Assets":      d(1000),
				"Liabilities": d(600),
				"RedeemableNoncontrollingInterestEquityCarryingAmount": d(50),
			},
			want: "350",
		},
		{
			name: "identity preferred over direct tag",
			m: YearConceptMap{
				"LiabilitiesAndStockholdersEquity": d(500),
				"Liabilities":                      d(300),
				"StockholdersEquity":               d(999),
			},
			want: "200",
		},
		{
			name: "direct tag without subtraction",
			m: YearConceptMap{
				"StockholdersEquity": d(150),
				"MinorityInterest":   d(20),
			},
			want: "150",
		},
		{
			name: "liabilities without total falls back to direct",
			m: YearConceptMap{
				"Liabilities":   d(300),
				"MembersEquity": d(75),
			},
			want: "75",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPresent(t, tt.want, Equity(tt.m))
		})
	}
}

func TestEquity_Absent(t *testing.T) {
	assert.False(t, Equity(YearConceptMap{"Assets": d(100)}).Valid)
	assert.False(t, Equity(YearConceptMap{}).Valid)
}

func TestWorkingCapitalChange(t *testing.T) {
	signs := signMap{
		"IncreaseDecreaseInAccountsReceivable": contracts.BalanceCredit,
		"IncreaseDecreaseInAccountsPayable":    contracts.BalanceDebit,
		"IncreaseDecreaseInInventories":        contracts.BalanceCredit,
		"IncreaseDecreaseInOperatingCapital":   contracts.BalanceCredit,
	}

	tests := []struct {
		name string
		m    YearConceptMap
		want string
	}{
		{"nothing reported is zero", YearConceptMap{"NetIncomeLoss": d(10)}, "0"},
		{
			name: "aggregate wins over components",
			m: YearConceptMap{
				"IncreaseDecreaseInOperatingCapital":   d(8),
				"IncreaseDecreaseInAccountsReceivable": d(100),
			},
			want: "-8",
		},
		{
			name: "components summed with signs",
			m: YearConceptMap{
				"IncreaseDecreaseInAccountsReceivable": d(10),
				"IncreaseDecreaseInAccountsPayable":    d(4),
				"IncreaseDecreaseInInventories":        d(-3),
			},
			want: "-3",
		},
		{
			name: "combined receivables replace the split",
			m: YearConceptMap{
				"IncreaseDecreaseInAccountsAndOtherReceivables": d(7),
				"IncreaseDecreaseInAccountsReceivable":          d(100),
			},
			// unknown sign counts as-is
			want: "7",
		},
		{
			name: "deferred revenue falls back to contract liability",
			m: YearConceptMap{
				"IncreaseDecreaseInContractWithCustomerLiability": d(6),
			},
			want: "6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, WorkingCapitalChange(tt.m, signs))
		})
	}
}

func TestWorkingCapitalChange_DefaultSigns(t *testing.T) {
	p := Partition([]contracts.ConceptFact{
		{CompanyID: 1, FiscalYear: 2024, Concept: "IncreaseDecreaseInAccountsReceivable", Value: d(10)},
		{CompanyID: 1, FiscalYear: 2024, Concept: "IncreaseDecreaseInAccruedLiabilities", Value: d(4)},
	})

	assertDecimal(t, "-6", WorkingCapitalChange(p.MostRecentSnapshot, p))
}

func TestDepletionAndAmortization(t *testing.T) {
	tests := []struct {
		name string
		m    YearConceptMap
		want string
	}{
		{"direct components summed", YearConceptMap{"AmortizationOfIntangibleAssets": d(3), "Depletion": d(2)}, "5"},
		{"one direct component", YearConceptMap{"AmortizationOfIntangibleAssets": d(3), "DepreciationDepletionAndAmortization": d(50)}, "3"},
		{"derived from DDA", YearConceptMap{"DepreciationDepletionAndAmortization": d(10), "Depreciation": d(7)}, "3"},
		{"DDA without depreciation", YearConceptMap{"DepreciationDepletionAndAmortization": d(10)}, "10"},
		{"nothing is zero", YearConceptMap{}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, DepletionAndAmortization(tt.m))
		})
	}
}

func TestDeferredTax(t *testing.T) {
	tests := []struct {
		name string
		m    YearConceptMap
		want string
	}{
		{"direct total", YearConceptMap{"DeferredIncomeTaxExpenseBenefit": d(4), "DeferredFederalIncomeTaxExpenseBenefit": d(9)}, "4"},
		{"components", YearConceptMap{"DeferredFederalIncomeTaxExpenseBenefit": d(1), "DeferredStateAndLocalIncomeTaxExpenseBenefit": d(2)}, "3"},
		{"single component", YearConceptMap{"DeferredForeignIncomeTaxExpenseBenefit": d(-2)}, "-2"},
		{"nothing is zero", YearConceptMap{}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, DeferredTax(tt.m))
		})
	}
}

func TestOtherNonCash(t *testing.T) {
	assertDecimal(t, "7", OtherNonCash(YearConceptMap{"ShareBasedCompensation": d(5), "OtherNoncashExpense": d(2)}))
	assertDecimal(t, "0", OtherNonCash(YearConceptMap{}))
}
