package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/application/dto"
	"github.com/vsinha/freightpay/pkg/application/services"
	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/logger"
)

// SplitConfig holds configuration for the split command
type SplitConfig struct {
	ScenarioDir string
	OrderID     string
	MiscValue   string
	FullSide    string
	AppliesTo   string
	Clear       bool
	DryRun      bool
	Verbose     bool
	Help        bool

	Logger *logger.Logger
}

// SplitCommand configures or clears a split load and writes the scenario back
type SplitCommand struct {
	config SplitConfig
	log    *logger.Logger
}

// NewSplitCommand creates a new split command
func NewSplitCommand(config SplitConfig) *SplitCommand {
	return &SplitCommand{
		config: config,
		log:    logOrNop(config.Logger),
	}
}

// Execute runs the split command
func (c *SplitCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	misc, err := c.validateInputs()
	if err != nil {
		return err
	}

	ws, err := openWorkspace(c.config.ScenarioDir, c.log, c.config.Verbose)
	if err != nil {
		return err
	}

	splits := services.NewSplitLoadService(ws.stores, ws.events, c.log)
	orderID := entities.OrderID(c.config.OrderID)

	var result *dto.SplitResult
	if c.config.Clear {
		if c.config.Verbose {
			fmt.Printf("🧹 Clearing split load on %s...\n", orderID)
		}
		result, err = splits.Clear(ctx, orderID)
	} else {
		if c.config.Verbose {
			fmt.Printf("✂️  Splitting %s: misc %s, full side %s\n", orderID, misc.StringFixed(2), c.config.FullSide)
		}
		result, err = splits.Configure(ctx, orderID, misc, strings.ToLower(c.config.FullSide), strings.ToLower(c.config.AppliesTo))
	}
	if err != nil {
		return fmt.Errorf("split load %s: %w", orderID, err)
	}

	printSplitResult(result)

	if c.config.DryRun {
		fmt.Println("Dry run: scenario not written")
		return nil
	}

	if err := ws.save(); err != nil {
		return err
	}
	if c.config.Verbose {
		fmt.Printf("💾 Scenario saved to: %s\n", ws.dir)
	}
	return nil
}

func printSplitResult(result *dto.SplitResult) {
	fmt.Printf("Order %s: %s\n", result.OrderID, result.State)
	if cfg := result.Configuration; cfg != nil {
		fmt.Printf("  Full quote: %s (%s keeps %s)\n", cfg.FullQuote.StringFixed(2), cfg.FullSide, cfg.FullPortion().StringFixed(2))
		fmt.Printf("  Misc value: %s on %s, applied to %s\n", cfg.MiscValue.StringFixed(2), cfg.MiscSide(), cfg.AppliesTo)
	}
	if !result.Changed {
		fmt.Println("  No changes")
	}
	for _, id := range result.CreatedIDs {
		fmt.Printf("  + %s\n", id)
	}
	for _, id := range result.DeletedIDs {
		fmt.Printf("  - %s\n", id)
	}
	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %s\n", warning.Message)
	}
}

// validateInputs validates the command configuration and parses the misc value
func (c *SplitCommand) validateInputs() (decimal.Decimal, error) {
	if c.config.ScenarioDir == "" {
		return decimal.Zero, fmt.Errorf("must specify -scenario directory")
	}
	if c.config.OrderID == "" {
		return decimal.Zero, fmt.Errorf("must specify -order")
	}
	if c.config.Clear {
		if c.config.MiscValue != "" {
			return decimal.Zero, fmt.Errorf("-clear cannot be combined with -misc")
		}
		return decimal.Zero, nil
	}

	if c.config.MiscValue == "" || c.config.FullSide == "" {
		return decimal.Zero, fmt.Errorf("must specify -misc and -full-side, or -clear")
	}
	misc, err := decimal.NewFromString(strings.TrimSpace(c.config.MiscValue))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid -misc value: %s", c.config.MiscValue)
	}
	return misc, nil
}

// showHelp displays the help message
func (c *SplitCommand) showHelp() {
	fmt.Printf(`Split Load - divide an order's freight quote between its pickup and delivery legs

USAGE:
    freightpay split -scenario <dir> -order <id> -misc <amount> -full-side <leg> [OPTIONS]
    freightpay split -scenario <dir> -order <id> -clear

OPTIONS:
    -scenario <dir>       Path to scenario directory containing CSV files
    -order <id>           Order to split
    -misc <amount>        Portion of the quote carried by the other leg
    -full-side <leg>      Leg that keeps the quote less the misc value: pickup or delivery
    -applies-to <target>  load_value (default) or driver_pay
    -clear                Remove the split and its records
    -dry-run              Print the result without writing the scenario
    -verbose              Enable verbose output
    -help                 Show this help message

If only one leg of the order is on a truckload the split stays pending until
the other leg is assigned; the next payroll run applies it.

EXAMPLES:
    # Keep 250.00 on the delivery truckload, move 150.00 to the pickup truckload
    freightpay split -scenario example/brokerage_week -order ORD-B -misc 150 -full-side delivery

    # Remove the split
    freightpay split -scenario example/brokerage_week -order ORD-B -clear
`)
}
