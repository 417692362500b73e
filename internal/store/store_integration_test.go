package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/pkg/config"
	"github.com/wonny/factscore/pkg/database"
)

const testCompanyID int64 = 990001

func connect(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() || os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.New(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = Migrate(ctx, db.Pool)
	require.NoError(t, err)

	cleanup := func() {
		_, _ = db.Pool.Exec(ctx, `DELETE FROM fundamentals.score_summaries WHERE company_id = $1`, testCompanyID)
		_, _ = db.Pool.Exec(ctx, `DELETE FROM fundamentals.concept_facts WHERE company_id = $1`, testCompanyID)
		_, _ = db.Pool.Exec(ctx, `DELETE FROM fundamentals.price_snapshots WHERE company_id = $1`, testCompanyID)
		_, _ = db.Pool.Exec(ctx, `DELETE FROM fundamentals.companies WHERE id = $1`, testCompanyID)
	}
	cleanup()
	t.Cleanup(func() {
		cleanup()
		db.Close()
	})

	require.NoError(t, NewCompanyRepository(db.Pool).UpsertCompany(ctx, contracts.Company{
		ID: testCompanyID, Ticker: "ZZTEST", Name: "Integration Test Co",
	}))
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFactRepository_LatestPeriodWinsAndWindow(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	repo := NewFactRepository(db.Pool)

	facts := []contracts.ConceptFact{
		{CompanyID: testCompanyID, Concept: "NetIncomeLoss", FiscalYear: 2021, PeriodEnd: date(2021, 12, 31), Value: decimal.NewFromInt(5), Balance: contracts.BalanceCredit},
		{CompanyID: testCompanyID, Concept: "NetIncomeLoss", FiscalYear: 2022, PeriodEnd: date(2022, 6, 30), Value: decimal.NewFromInt(1)},
		{CompanyID: testCompanyID, Concept: "NetIncomeLoss", FiscalYear: 2022, PeriodEnd: date(2022, 12, 31), Value: decimal.NewFromInt(7)},
		{CompanyID: testCompanyID, Concept: "NetIncomeLoss", FiscalYear: 2023, PeriodEnd: date(2023, 12, 31), Value: decimal.RequireFromString("8.25")},
		{CompanyID: testCompanyID, Concept: "Goodwill", FiscalYear: 2023, PeriodEnd: date(2023, 12, 31), Value: decimal.NewFromInt(3)},
	}
	require.NoError(t, repo.SaveFacts(ctx, facts))

	got, err := repo.GetScoringFacts(ctx, testCompanyID, []string{"NetIncomeLoss"}, 2)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, 2023, got[0].FiscalYear)
	assert.True(t, got[0].Value.Equal(decimal.RequireFromString("8.25")))
	assert.Equal(t, 2022, got[1].FiscalYear)
	assert.True(t, got[1].Value.Equal(decimal.NewFromInt(7)), "latest period end wins")

	all, err := repo.GetScoringFacts(ctx, testCompanyID, []string{"NetIncomeLoss"}, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, contracts.BalanceCredit, all[2].Balance)
}

func TestFactRepository_RejectsEmptyWindow(t *testing.T) {
	repo := NewFactRepository(nil)
	_, err := repo.GetAllScoringFacts(context.Background(), []string{"Goodwill"}, 0)
	assert.Error(t, err)
}

func TestPriceRepository_AsOf(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	repo := NewPriceRepository(db.Pool)

	require.NoError(t, repo.SavePriceSnapshot(ctx, contracts.PriceSnapshot{
		CompanyID:         testCompanyID,
		AsOf:              date(2024, 1, 2),
		PricePerShare:     decimal.NewNullDecimal(decimal.NewFromInt(10)),
		SharesOutstanding: decimal.NewNullDecimal(decimal.NewFromInt(30)),
	}))
	require.NoError(t, repo.SavePriceSnapshot(ctx, contracts.PriceSnapshot{
		CompanyID:     testCompanyID,
		AsOf:          date(2024, 3, 1),
		PricePerShare: decimal.NewNullDecimal(decimal.NewFromInt(12)),
	}))

	snap, err := repo.GetPriceSnapshot(ctx, testCompanyID, date(2024, 2, 1))
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.PricePerShare.Decimal.Equal(decimal.NewFromInt(10)))
	assert.True(t, snap.SharesOutstanding.Valid)

	snap, err = repo.GetPriceSnapshot(ctx, testCompanyID, date(2024, 6, 1))
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.False(t, snap.SharesOutstanding.Valid)

	snap, err = repo.GetPriceSnapshot(ctx, testCompanyID, date(2023, 1, 1))
	require.NoError(t, err)
	assert.Nil(t, snap)

	all, err := repo.GetAllPriceSnapshots(ctx, date(2024, 2, 1))
	require.NoError(t, err)
	assert.Contains(t, all, testCompanyID)
}

func TestRunRepository_SaveAndRead(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	repo := NewRunRepository(db.Pool)

	now := time.Now().UTC().Truncate(time.Millisecond)
	run := &contracts.ScoreRun{
		ID:              uuid.New().String(),
		Kind:            contracts.KindMoat,
		AsOf:            date(2024, 6, 30),
		StartedAt:       now.Add(-time.Second),
		FinishedAt:      now,
		CompaniesSeen:   1,
		CompaniesScored: 1,
		ThresholdsHash:  "abc",
		Trigger:         "test",
	}
	summaries := []contracts.ScoreSummary{{
		CompanyID:        testCompanyID,
		Kind:             contracts.KindMoat,
		OverallScore:     11,
		ComputableChecks: 12,
		YearsOfData:      8,
		MarketCap:        decimal.NewNullDecimal(decimal.NewFromInt(300)),
	}}
	require.NoError(t, repo.SaveRun(ctx, run, summaries))
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(ctx, `DELETE FROM fundamentals.score_runs WHERE id = $1::text::uuid`, run.ID)
	})

	runs, err := repo.ListRuns(ctx, contracts.KindMoat, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "test", runs[0].Trigger)

	got, err := repo.LatestSummaries(ctx, contracts.KindMoat, contracts.OrderByScore, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 11, got[0].OverallScore)
	assert.True(t, got[0].MarketCap.Valid)
	assert.False(t, got[0].EstimatedReturn.Valid)

	_, err = repo.LatestSummaries(ctx, contracts.KindMoat, contracts.SummaryOrder("bogus"), 10)
	assert.Error(t, err)
}
