package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/movewise/movewise/internal/config"
	"github.com/movewise/movewise/internal/errors"
	"github.com/movewise/movewise/internal/inventory"
	"github.com/movewise/movewise/internal/logging"
	"github.com/movewise/movewise/internal/orchestrator"
	"github.com/movewise/movewise/internal/pricing"
	"github.com/movewise/movewise/internal/session"
)

var (
	headerColor  = color.New(color.FgBlue, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a complete moving plan",
	Long: `Generate a complete moving plan from an inventory file and move
parameters. Each item is priced, given a disposition (move, sell and
replace, or donate), and the result is reconciled against the budget
with moving quotes, listings, utility scheduling, a timeline and a
checklist. State is persisted after every step and can be inspected
later with 'movewise sessions show'.`,
	RunE: runPlan,
}

var (
	planFrom      string
	planTo        string
	planBudget    float64
	planDistance  float64
	planPriority  string
	planMoveDate  string
	planInventory string
	planSession   string
)

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planFrom, "from", "", "origin location")
	planCmd.Flags().StringVar(&planTo, "to", "", "destination location")
	planCmd.Flags().Float64Var(&planBudget, "budget", 0, "moving budget in USD (default from config)")
	planCmd.Flags().Float64Var(&planDistance, "distance", 0, "move distance in miles (estimated when omitted)")
	planCmd.Flags().StringVar(&planPriority, "priority", "", "planning priority hint")
	planCmd.Flags().StringVar(&planMoveDate, "move-date", "", "move date, YYYY-MM-DD")
	planCmd.Flags().StringVar(&planInventory, "inventory", "", "path to inventory JSON file (required)")
	planCmd.Flags().StringVar(&planSession, "session", "", "session ID to resume; generated when omitted")
	_ = planCmd.MarkFlagRequired("inventory")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	items, err := loadInventory(planInventory)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	store, err := session.Open(cfg.Session.Store, cfg.Session.Dir, cfg.Session.SQLitePath)
	if err != nil {
		return err
	}
	defer store.Close()

	oracle := pricing.NewClient(&pricing.ClientConfig{
		BaseURL:     cfg.Oracle.BaseURL,
		Model:       cfg.Oracle.Model,
		Timeout:     cfg.Oracle.Timeout(),
		Temperature: cfg.Oracle.Temperature,
	})

	budget := planBudget
	if budget <= 0 {
		budget = cfg.Move.DefaultBudget
	}
	priority := planPriority
	if priority == "" {
		priority = cfg.Move.DefaultPriority
	}
	moveDate := planMoveDate
	if moveDate == "" {
		moveDate = cfg.Move.DefaultMoveDate
	}

	o, err := orchestrator.New(cmd.Context(), orchestrator.Options{
		SessionID: planSession,
		Move: orchestrator.MoveContext{
			Origin:        planFrom,
			Destination:   planTo,
			DistanceMiles: planDistance,
			Budget:        budget,
			Priority:      priority,
			MoveDate:      moveDate,
		},
		Inventory: items,
		Estimator: pricing.NewOracleEstimator(oracle, log),
		Store:     store,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	summary, err := o.Run(cmd.Context())
	if err != nil {
		return err
	}

	renderSummary(summary)
	return nil
}

// loadInventory reads and validates the inventory file. Only the intrinsic
// fields are accepted; analysis fields are computed by the run.
func loadInventory(path string) ([]inventory.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}

	var items []inventory.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse inventory file: %w", err)
	}

	for i := range items {
		if strings.TrimSpace(items[i].Name) == "" {
			return nil, fmt.Errorf("%w: inventory item %d has no name", errors.ErrInvalidInput, i+1)
		}
	}
	return items, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
}

func renderSummary(s *orchestrator.Summary) {
	headerColor.Println("Moving Plan")
	dimColor.Printf("session %s\n\n", s.SessionID)

	labelColor.Println("Move")
	fmt.Printf("  %s -> %s (%.0f mi), budget $%.0f\n\n",
		s.MoveDetails.From, s.MoveDetails.To, s.MoveDetails.Distance, s.MoveDetails.Budget)

	labelColor.Println("Items")
	fmt.Printf("  %d total: %d to move, %d to sell and replace, %d to donate\n\n",
		s.ItemSummary.TotalItems, s.ItemSummary.ItemsToMove,
		s.ItemSummary.ItemsToReplace, s.ItemSummary.ItemsToDonate)

	for _, item := range s.ItemsToMove {
		fmt.Printf("  MOVE    %-20s $%.2f to haul\n", item.Name, item.MovingCost)
		dimColor.Printf("          %s\n", item.Reasoning)
	}
	for _, item := range s.ItemsToReplace {
		fmt.Printf("  SELL    %-20s sell $%.0f, replace $%.0f (net $%.0f)\n",
			item.Name, item.SellFor, item.BuyNewFor, item.NetCost)
		dimColor.Printf("          %s\n", item.Reasoning)
	}
	for _, item := range s.ItemsToDonate {
		fmt.Printf("  DONATE  %s\n", item.Name)
	}
	fmt.Println()

	labelColor.Println("Costs")
	ca := s.CostAnalysis
	fmt.Printf("  moving $%.2f + replacements $%.2f - sales $%.2f = net $%.2f\n",
		ca.TotalMovingCost, ca.TotalReplacementCost, ca.TotalSellingRevenue, ca.NetCost)
	fmt.Printf("  total savings $%.2f\n", ca.TotalSavings)
	if ca.WithinBudget {
		successColor.Printf("  within budget, $%.2f remaining\n\n", ca.BudgetRemaining)
	} else {
		warningColor.Printf("  over budget by $%.2f\n\n", -ca.BudgetRemaining)
	}

	labelColor.Println("Timeline")
	for _, line := range s.Timeline {
		fmt.Printf("  %s\n", line)
	}
	fmt.Println()

	labelColor.Println("Checklist")
	for _, line := range s.Checklist {
		fmt.Printf("  [ ] %s\n", line)
	}
	fmt.Println()

	labelColor.Println("Steps")
	for _, entry := range s.Log {
		if entry.Status == "success" {
			successColor.Printf("  ok  ")
		} else {
			warningColor.Printf("  !!  ")
		}
		fmt.Printf("%d %s", entry.Step, entry.Kind)
		if entry.Error != "" {
			dimColor.Printf("  (%s)", entry.Error)
		}
		fmt.Println()
	}
}
