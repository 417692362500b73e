package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/factscore/internal/contracts"
)

func TestSummarize(t *testing.T) {
	summaries := []contracts.ScoreSummary{
		{CompanyID: 1, OverallScore: 9},
		{CompanyID: 2, OverallScore: 5},
		{CompanyID: 3, OverallScore: 7},
		{CompanyID: 4, OverallScore: 7},
	}

	dist, err := Summarize(contracts.KindValue, summaries)
	require.NoError(t, err)

	assert.Equal(t, 4, dist.Count)
	assert.InDelta(t, 7.0, dist.Mean, 1e-9)
	assert.InDelta(t, 7.0, dist.Median, 1e-9)
	assert.Equal(t, 2, dist.Histogram[7])
	assert.Equal(t, 1, dist.Histogram[9])
	assert.Greater(t, dist.StdDev, 0.0)
}

func TestSummarize_Empty(t *testing.T) {
	dist, err := Summarize(contracts.KindMoat, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, dist.Count)
	assert.Zero(t, dist.Mean)
}

func TestSummarize_SingleCompany(t *testing.T) {
	dist, err := Summarize(contracts.KindMoat, []contracts.ScoreSummary{{OverallScore: 12}})
	require.NoError(t, err)

	assert.InDelta(t, 12.0, dist.Mean, 1e-9)
	assert.Zero(t, dist.StdDev)
}
