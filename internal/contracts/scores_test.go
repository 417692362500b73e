package contracts

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScoreKind(t *testing.T) {
	tests := []struct {
		in   string
		want ScoreKind
		ok   bool
	}{
		{"value", KindValue, true},
		{"moat", KindMoat, true},
		{"Value", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseScoreKind(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseBalanceSign(t *testing.T) {
	assert.Equal(t, BalanceDebit, ParseBalanceSign("debit"))
	assert.Equal(t, BalanceCredit, ParseBalanceSign("CREDIT"))
	assert.Equal(t, BalanceNotApplicable, ParseBalanceSign(""))
	assert.Equal(t, BalanceNotApplicable, ParseBalanceSign("duration"))
}

func TestTallyChecks(t *testing.T) {
	checks := []ScoringCheck{
		{Number: 1, Result: CheckPass},
		{Number: 2, Result: CheckFail},
		{Number: 3, Result: CheckNotAvailable},
		{Number: 4, Result: CheckPass},
	}

	passed, computable := TallyChecks(checks)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 3, computable)

	passed, computable = TallyChecks(nil)
	assert.Zero(t, passed)
	assert.Zero(t, computable)
}

func TestSummary(t *testing.T) {
	ret := decimal.NewNullDecimal(decimal.NewFromInt(7))
	value := &ValueScore{
		CompanyID:        4,
		OverallScore:     9,
		ComputableChecks: 13,
		YearsOfData:      2,
		Metrics:          ValueMetrics{EstimatedReturnOE: ret},
	}

	s := value.Summary()
	assert.Equal(t, KindValue, s.Kind)
	assert.Equal(t, int64(4), s.CompanyID)
	assert.True(t, s.EstimatedReturn.Decimal.Equal(ret.Decimal))
	assert.False(t, s.MarketCap.Valid)

	moat := (&MoatScore{CompanyID: 5, OverallScore: 12}).Summary()
	assert.Equal(t, KindMoat, moat.Kind)
	assert.Equal(t, 12, moat.OverallScore)
}

func TestScoringCheck_AbsentValueIsNull(t *testing.T) {
	data, err := json.Marshal(ScoringCheck{Number: 1, Name: "x", Result: CheckNotAvailable})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"computed_value":null`)
	assert.Contains(t, string(data), `"result":"NA"`)
}
