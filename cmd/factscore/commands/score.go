package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/scorecache"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score [value|moat] [company_id]",
	Short: "Compute one company's scorecard",
	Long: `Computes the value or moat scorecard of a single company and prints every check.

Example:
  go run ./cmd/factscore score value 320193
  go run ./cmd/factscore score moat 320193 --date 2023-12-31 --json`,
	Args: cobra.ExactArgs(2),
	RunE: runScore,
}

var (
	scoreDate string
	scoreJSON bool
	noCache   bool
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreDate, "date", "", "price as-of date YYYY-MM-DD (default today)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print the full scorecard as JSON")
	scoreCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the Redis score cache")
}

// parseDate reads a YYYY-MM-DD flag, defaulting to today (UTC)
func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

func runScore(cmd *cobra.Command, args []string) error {
	kind, ok := contracts.ParseScoreKind(args[0])
	if !ok {
		return fmt.Errorf("kind must be 'value' or 'moat', got %q", args[0])
	}
	companyID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid company id %q", args[1])
	}
	asOf, err := parseDate(scoreDate)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	scorer := scoreSource(a)

	switch kind {
	case contracts.KindValue:
		score, err := scorer.ScoreValue(ctx, companyID, asOf)
		if err != nil {
			return err
		}
		if scoreJSON {
			return PrintJSON(score)
		}
		PrintHeader("Value Scorecard", formatFields(
			"Company", strconv.FormatInt(companyID, 10),
			"As of", asOf.Format("2006-01-02"),
			"Years", strconv.Itoa(score.YearsOfData),
			"Market cap", formatNull(score.Metrics.MarketCap),
			"Book value", formatNull(score.Metrics.BookValue),
		))
		PrintChecks(score.Checks, score.OverallScore, score.ComputableChecks)

	case contracts.KindMoat:
		score, err := scorer.ScoreMoat(ctx, companyID, asOf)
		if err != nil {
			return err
		}
		if scoreJSON {
			return PrintJSON(score)
		}
		PrintHeader("Moat Scorecard", formatFields(
			"Company", strconv.FormatInt(companyID, 10),
			"As of", asOf.Format("2006-01-02"),
			"Years", strconv.Itoa(score.YearsOfData),
			"Revenue CAGR", formatNull(score.Metrics.RevenueCagr),
			"Coverage", formatNull(score.Metrics.InterestCoverage),
		))
		PrintChecks(score.Checks, score.OverallScore, score.ComputableChecks)
	}

	return nil
}

// scoreSource picks the cached or direct scorer
func scoreSource(a *app) scorecache.Scorer {
	if noCache {
		return a.service
	}
	return a.scorer
}
