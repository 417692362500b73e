package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNullNumeric(t *testing.T) {
	got, err := parseNullNumeric(nil)
	require.NoError(t, err)
	assert.False(t, got.Valid)

	s := "-1234.5600"
	got, err = parseNullNumeric(&s)
	require.NoError(t, err)
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(decimal.RequireFromString("-1234.56")))

	bad := "abc"
	_, err = parseNullNumeric(&bad)
	assert.Error(t, err)
}

func TestNumericArg(t *testing.T) {
	assert.Nil(t, numericArg(decimal.NullDecimal{}))

	arg := numericArg(decimal.NewNullDecimal(decimal.RequireFromString("1.50")))
	require.NotNil(t, arg)
	assert.Equal(t, "1.5", *arg)
}

func TestMigrationNames_Sorted(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)

	require.NotEmpty(t, names)
	assert.Equal(t, "001_fundamentals.sql", names[0])
	assert.IsIncreasing(t, names)
}

func TestSummaryOrderBy_CoversEveryOrder(t *testing.T) {
	assert.Len(t, summaryOrderBy, 2)
}
