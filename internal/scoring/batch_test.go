package scoring

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/pkg/logger"
)

func newBatchScorer(workers int) *BatchScorer {
	return NewBatchScorer(newValueEngine(), newMoatEngine(), workers, logger.NewNop())
}

func multiCompanyFacts() []contracts.ConceptFact {
	facts := append(twoYearFacts(1), twoYearFacts(2)...)
	facts = append(facts, contracts.ConceptFact{CompanyID: 3, Concept: "NetIncomeLoss", Value: d(1)})
	return facts
}

func TestBatchScorer_Run(t *testing.T) {
	tests := []struct {
		name string
		kind contracts.ScoreKind
	}{
		{"value", contracts.KindValue},
		{"moat", contracts.KindMoat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := newBatchScorer(4)
			prices := map[int64]contracts.PriceSnapshot{1: priceOf(1, 300, 1)}

			result, err := batch.Run(context.Background(), tt.kind, multiCompanyFacts(), prices)
			require.NoError(t, err)

			assert.Equal(t, 3, result.SeenCount)
			assert.Equal(t, 1, result.Skipped)
			require.Len(t, result.Summaries, 2)

			sort.Slice(result.Summaries, func(i, j int) bool {
				return result.Summaries[i].CompanyID < result.Summaries[j].CompanyID
			})
			assert.Equal(t, int64(1), result.Summaries[0].CompanyID)
			assert.Equal(t, int64(2), result.Summaries[1].CompanyID)
			assert.Equal(t, tt.kind, result.Summaries[0].Kind)
			assert.True(t, result.Summaries[0].MarketCap.Valid)
			assert.False(t, result.Summaries[1].MarketCap.Valid, "company without price")
			assert.Equal(t, 2, result.Summaries[0].YearsOfData)
		})
	}
}

func TestBatchScorer_MatchesSingleCompanyScoring(t *testing.T) {
	batch := newBatchScorer(3)
	prices := map[int64]contracts.PriceSnapshot{1: priceOf(1, 300, 1)}

	result, err := batch.Run(context.Background(), contracts.KindValue, multiCompanyFacts(), prices)
	require.NoError(t, err)

	single := newValueEngine().Score(1, partitioned(twoYearFacts(1)...), prices[1])
	assert.Equal(t, single, result.Value[1])
	assert.Empty(t, result.Moat)
	assert.Equal(t, 9, result.Value[1].OverallScore)
}

func TestBatchScorer_Empty(t *testing.T) {
	result, err := newBatchScorer(2).Run(context.Background(), contracts.KindMoat, nil, nil)
	require.NoError(t, err)

	assert.Empty(t, result.Summaries)
	assert.Equal(t, 0, result.SeenCount)
}

func TestBatchScorer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newBatchScorer(2).Run(ctx, contracts.KindValue, multiCompanyFacts(), nil)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.True(t, result.Interrupted)
	assert.Empty(t, result.Summaries)
}

func TestBatchScorer_UnknownKind(t *testing.T) {
	_, err := newBatchScorer(1).Run(context.Background(), contracts.ScoreKind("growth"), nil, nil)
	assert.Error(t, err)
}

func TestNewBatchScorer_MinimumOneWorker(t *testing.T) {
	assert.Equal(t, 1, newBatchScorer(0).workers)
}
