package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/freightpay/pkg/application/services"
	"github.com/vsinha/freightpay/pkg/domain/services/payroll"
	"github.com/vsinha/freightpay/pkg/logger"
)

// QuoteConfig holds configuration for the quote command
type QuoteConfig struct {
	ScenarioDir  string
	AssignmentID string
	Value        string
	Verbose      bool
	Help         bool

	Logger *logger.Logger
}

// QuoteCommand edits the raw freight quote of one assignment
type QuoteCommand struct {
	config QuoteConfig
	log    *logger.Logger
}

// NewQuoteCommand creates a new quote command
func NewQuoteCommand(config QuoteConfig) *QuoteCommand {
	return &QuoteCommand{
		config: config,
		log:    logOrNop(config.Logger),
	}
}

// Execute stages the edit, flushes it and writes the scenario back
func (c *QuoteCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return err
	}

	ws, err := openWorkspace(c.config.ScenarioDir, c.log, c.config.Verbose)
	if err != nil {
		return err
	}

	editor := services.NewQuoteEditor(ws.stores.Orders, ws.events, c.log)
	if err := editor.StageQuote(ctx, c.config.AssignmentID, c.config.Value); err != nil {
		return fmt.Errorf("quote for %s: %w", c.config.AssignmentID, err)
	}

	if c.config.Verbose {
		for _, pending := range editor.Pending() {
			fmt.Printf("📝 Pending: %s\n", pending.Description)
		}
	}

	if err := editor.Flush(ctx); err != nil {
		return err
	}

	if err := ws.save(); err != nil {
		return err
	}

	value := c.config.Value
	if value == "" {
		value = "(none)"
	}
	fmt.Printf("Assignment %s: order quote set to %s\n", c.config.AssignmentID, value)
	if c.config.Value != "" {
		if _, ok := payroll.ParseQuoteString(c.config.Value); !ok {
			fmt.Printf("Warning: %q is not a usable quote; the order is excluded from load value until it is corrected\n", c.config.Value)
		}
	}
	return nil
}

// validateInputs validates the command configuration
func (c *QuoteCommand) validateInputs() error {
	if c.config.ScenarioDir == "" {
		return fmt.Errorf("must specify -scenario directory")
	}
	if c.config.AssignmentID == "" {
		return fmt.Errorf("must specify -assignment")
	}
	return nil
}

// showHelp displays the help message
func (c *QuoteCommand) showHelp() {
	fmt.Printf(`Quote - edit the freight quote of an assignment

USAGE:
    freightpay quote -scenario <dir> -assignment <id> -value <quote>

OPTIONS:
    -scenario <dir>      Path to scenario directory containing CSV files
    -assignment <id>     Assignment to edit
    -value <quote>       New quote as entered, e.g. 1200 or "$1,200.00"; empty clears it
    -verbose             Enable verbose output
    -help                Show this help message

The quote is the order's full price and is written to every leg of the order.
Quotes of split legs are derived from the split configuration and cannot be
edited here; use "freightpay split" instead.
`)
}
