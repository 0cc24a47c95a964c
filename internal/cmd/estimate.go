package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/movewise/movewise/internal/config"
	"github.com/movewise/movewise/internal/inventory"
	"github.com/movewise/movewise/internal/pricing"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <item name>",
	Short: "Estimate replacement price and volume for a single item",
	Long: `Estimate the replacement price and packed volume for a single item
without running a full plan. Uses the pricing oracle when reachable and
falls back to deterministic heuristics otherwise.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEstimate,
}

var estimateDescription string

func init() {
	rootCmd.AddCommand(estimateCmd)
	estimateCmd.Flags().StringVar(&estimateDescription, "description", "", "item description fed to the estimator")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	oracle := pricing.NewClient(&pricing.ClientConfig{
		BaseURL:     cfg.Oracle.BaseURL,
		Model:       cfg.Oracle.Model,
		Timeout:     cfg.Oracle.Timeout(),
		Temperature: cfg.Oracle.Temperature,
	})
	estimator := pricing.NewOracleEstimator(oracle, log)

	item := inventory.Item{
		Name:        strings.Join(args, " "),
		Description: estimateDescription,
	}
	est := estimator.Estimate(cmd.Context(), item)

	labelColor.Println(item.Name)
	fmt.Printf("  replacement price  $%.2f\n", est.ReplacementPrice)
	fmt.Printf("  packed volume      %.1f cu ft\n", est.Volume)
	fmt.Printf("  moving cost        $%.2f\n", inventory.MovingCost(est.Volume))

	band := pricing.LookupMarketPrice(item.Name)
	fmt.Printf("  used-market price  $%.0f (%s)\n", band.Avg, band.Range())
	return nil
}
