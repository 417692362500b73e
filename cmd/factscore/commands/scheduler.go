package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/scheduler"
	"github.com/wonny/factscore/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run or inspect scheduled batch scoring",
	Long: `Starts the scheduler daemon or manages its jobs.

Subcommands:
  start   - start the scheduler
  list    - list registered jobs
  run     - run one job now

Jobs (schedule from SCORING_BATCH_SCHEDULE):
  batch_score_value
  batch_score_moat

Example:
  go run ./cmd/factscore scheduler start
  go run ./cmd/factscore scheduler run batch_score_moat`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobNow,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// initScheduler registers one batch job per score kind
func initScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log, scheduler.DefaultOptions())

	for _, kind := range []contracts.ScoreKind{contracts.KindValue, contracts.KindMoat} {
		job := jobs.NewBatchScoreJob(kind, a.cfg.Scoring.BatchSchedule, a.service, a.scorer, a.redis, a.log)
		if err := sched.AddJob(job); err != nil {
			return nil, err
		}
	}

	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()

	fmt.Println("✅ Scheduler started")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	stats := sched.GetJobStats()
	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %-20s %s\n", jobName, stats[jobName].Schedule)
	}

	return nil
}

func runJobNow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	result, err := sched.RunJob(args[0])
	if err != nil {
		return err
	}

	switch {
	case result.Skipped:
		fmt.Printf("⏭  %s skipped (another instance holds the lock)\n", result.JobName)
	case result.Success:
		fmt.Printf("✅ %s completed in %s\n", result.JobName, result.Duration)
	default:
		return fmt.Errorf("%s failed after %d attempts: %s", result.JobName, result.Attempts, result.Error)
	}

	return nil
}
