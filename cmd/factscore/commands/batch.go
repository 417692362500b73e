package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/scoring"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [value|moat]",
	Short: "Score every company and record the run",
	Long: `Scores every company with facts, stores the summaries as a run and warms the cache.
Ctrl+C stops dispatching new companies; an interrupted run is not recorded.

Example:
  go run ./cmd/factscore batch value
  go run ./cmd/factscore batch moat --date 2024-06-30 --top 25`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	batchDate string
	batchTop  int
)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchDate, "date", "", "price as-of date YYYY-MM-DD (default today)")
	batchCmd.Flags().IntVar(&batchTop, "top", 10, "number of top-scoring companies to print")
}

func runBatch(cmd *cobra.Command, args []string) error {
	kind, ok := contracts.ParseScoreKind(args[0])
	if !ok {
		return fmt.Errorf("kind must be 'value' or 'moat', got %q", args[0])
	}
	asOf, err := parseDate(batchDate)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, result, err := a.service.RunBatch(ctx, kind, asOf, "cli")
	if err != nil {
		return err
	}

	if _, err := a.scorer.Invalidate(ctx, kind); err != nil {
		a.log.WithError(err).Warn("Failed to invalidate score cache")
	}
	cached := a.scorer.Warm(ctx, result, asOf)

	dist, err := scoring.Summarize(kind, result.Summaries)
	if err != nil {
		return err
	}

	PrintHeader(fmt.Sprintf("Batch %s", kind), formatFields(
		"Run", run.ID,
		"As of", asOf.Format("2006-01-02"),
		"Seen", strconv.Itoa(run.CompaniesSeen),
		"Scored", strconv.Itoa(run.CompaniesScored),
		"Skipped", strconv.Itoa(result.Skipped),
		"Cached", strconv.Itoa(cached),
		"Mean", fmt.Sprintf("%.2f", dist.Mean),
		"Median", fmt.Sprintf("%.1f", dist.Median),
		"Duration", run.FinishedAt.Sub(run.StartedAt).String(),
	))

	summaries := result.Summaries
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].OverallScore != summaries[j].OverallScore {
			return summaries[i].OverallScore > summaries[j].OverallScore
		}
		return summaries[i].CompanyID < summaries[j].CompanyID
	})
	if batchTop >= 0 && batchTop < len(summaries) {
		summaries = summaries[:batchTop]
	}
	for _, s := range summaries {
		fmt.Printf("  %10d  score %2d/%-2d  years %2d  est. return %s\n",
			s.CompanyID, s.OverallScore, s.ComputableChecks, s.YearsOfData, formatNull(s.EstimatedReturn))
	}
	fmt.Println(heavyRule)

	return nil
}
