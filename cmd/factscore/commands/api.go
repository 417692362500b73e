package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/factscore/internal/api"
	"github.com/wonny/factscore/internal/api/handlers"
	"github.com/wonny/factscore/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health                              - Health check
  GET  /api/companies                       - Scorable companies
  GET  /api/companies/{id}/value?date=      - Value scorecard
  GET  /api/companies/{id}/moat?date=       - Moat scorecard
  GET  /api/thresholds                      - Active rule set
  GET  /api/scores/{kind}?limit=&sort=      - Latest batch summaries
  GET  /api/scores/{kind}/distribution      - Latest batch score statistics
  POST /api/scores/{kind}/run?date=         - Run a batch now
  GET  /api/runs?kind=&limit=               - Batch run history

Example:
  go run ./cmd/factscore api
  go run ./cmd/factscore api --port 9090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	limiter := redis.NewRateLimiter(a.redis, cachePrefix)
	companyHandler := handlers.NewCompanyHandler(a.scorer, a.companies, a.rules, a.rulesHash, a.log)
	scoresHandler := handlers.NewScoresHandler(a.service, a.runs, a.scorer, limiter, a.cfg.Scoring.RunRateLimit, a.log)

	router := api.NewRouter(companyHandler, scoresHandler, a.db, a.log)
	server := api.New(a.cfg, a.log, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("✅ Server running on http://localhost:%s (Ctrl+C to stop)\n", a.cfg.Port)
	if err := server.Run(ctx); err != nil {
		return err
	}

	a.log.Info("Server stopped")
	return nil
}
