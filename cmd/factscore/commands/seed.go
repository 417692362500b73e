package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/factscore/internal/store"
	"github.com/wonny/factscore/pkg/config"
	"github.com/wonny/factscore/pkg/database"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed [dataset.json]",
	Short: "Load companies, facts and prices from a JSON dataset",
	Long: `Upserts a JSON dataset into the fundamentals schema. Run migrate first.

Example:
  go run ./cmd/factscore seed testdata/sample.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	ds, err := store.ReadDataset(f)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	counts, err := store.Seed(ctx,
		store.NewCompanyRepository(db.Pool),
		store.NewFactRepository(db.Pool),
		store.NewPriceRepository(db.Pool),
		ds,
	)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Seeded %d companies, %d facts, %d prices\n", counts.Companies, counts.Facts, counts.Prices)
	return nil
}
