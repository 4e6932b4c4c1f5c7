package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/application/dto"
	"github.com/vsinha/freightpay/pkg/application/services"
	"github.com/vsinha/freightpay/pkg/config"
	"github.com/vsinha/freightpay/pkg/domain/entities"
	"github.com/vsinha/freightpay/pkg/interfaces/cli/output"
	"github.com/vsinha/freightpay/pkg/logger"
)

// PayrollConfig holds configuration for the payroll command
type PayrollConfig struct {
	ScenarioDir           string
	TruckloadID           string
	OutputDir             string
	Format                string
	DefaultLoadPercentage decimal.Decimal
	Snapshot              bool
	Verbose               bool
	Help                  bool

	Logger *logger.Logger
	Out    io.Writer
}

// PayrollCommand computes settlement statements for a scenario
type PayrollCommand struct {
	config PayrollConfig
	log    *logger.Logger
}

// NewPayrollCommand creates a new payroll command
func NewPayrollCommand(config PayrollConfig) *PayrollCommand {
	return &PayrollCommand{
		config: config,
		log:    logOrNop(config.Logger),
	}
}

// Execute runs the payroll command
func (c *PayrollCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return err
	}

	if c.config.Verbose {
		c.printHeader()
	}

	ws, err := openWorkspace(c.config.ScenarioDir, c.log, c.config.Verbose)
	if err != nil {
		return err
	}

	payrollConfig := services.DefaultPayrollConfig()
	if !c.config.DefaultLoadPercentage.IsZero() {
		payrollConfig.DefaultLoadPercentage = c.config.DefaultLoadPercentage
	}

	splits := services.NewSplitLoadService(ws.stores, ws.events, c.log)
	payroll := services.NewPayrollService(payrollConfig, ws.stores, splits, ws.events, c.log)

	if c.config.Verbose {
		fmt.Println("🧮 Calculating payroll...")
	}

	startTime := time.Now()
	run, err := c.calculate(ctx, payroll)
	if err != nil {
		return err
	}
	calculationTime := time.Since(startTime)

	if c.config.Verbose {
		fmt.Printf("✅ Payroll calculated in %v\n", calculationTime)
		fmt.Printf("  Statements: %d\n", len(run.Statements))
		fmt.Printf("  Events recorded: %d\n\n", ws.eventCount())
	}

	for _, split := range run.Splits {
		if split.State == entities.Split && !split.Balanced {
			fmt.Printf("Warning: split load %s counts %s of its %s quote across truckloads\n",
				split.OrderID, split.QuoteCounted.StringFixed(2), split.FullQuote.StringFixed(2))
		}
	}

	outputConfig := output.Config{
		Format:          c.config.Format,
		OutputDir:       c.config.OutputDir,
		Verbose:         c.config.Verbose,
		CalculationTime: calculationTime,
		ScenarioDir:     c.config.ScenarioDir,
		Out:             c.config.Out,
	}
	if err := output.Generate(run, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Snapshot {
		if err := c.saveSnapshots(ctx, ws, payroll, run); err != nil {
			return err
		}
	}

	if c.config.Verbose {
		fmt.Println("🏁 Payroll complete!")
	}
	return nil
}

// saveSnapshots stages every statement, flushes them into the settlement
// store and writes settlements.csv into the scenario directory
func (c *PayrollCommand) saveSnapshots(ctx context.Context, ws *workspace, payroll *services.PayrollService, run *dto.PayrollRun) error {
	for _, statement := range run.Statements {
		payroll.StageSnapshot(statement)
	}
	if c.config.Verbose {
		for _, pending := range payroll.PendingSnapshots() {
			fmt.Printf("📝 Pending: %s\n", pending.Description)
		}
	}
	if err := payroll.FlushSnapshots(ctx); err != nil {
		return err
	}

	count, err := ws.saveSettlements()
	if err != nil {
		return err
	}
	if c.config.Verbose {
		fmt.Printf("💾 %d settlement snapshots saved to: %s\n", count, ws.dir)
	}
	return nil
}

// calculate runs one truckload when -truckload is set, every truckload otherwise
func (c *PayrollCommand) calculate(ctx context.Context, payroll *services.PayrollService) (*dto.PayrollRun, error) {
	if c.config.TruckloadID == "" {
		run, err := payroll.CalculateAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate payroll: %w", err)
		}
		return run, nil
	}

	statement, err := payroll.Calculate(ctx, entities.TruckloadID(c.config.TruckloadID))
	if err != nil {
		return nil, fmt.Errorf("failed to calculate payroll for %s: %w", c.config.TruckloadID, err)
	}
	return &dto.PayrollRun{
		Statements: []*dto.PayrollStatement{statement},
		RunAt:      statement.CalculatedAt,
	}, nil
}

// validateInputs validates the command configuration
func (c *PayrollCommand) validateInputs() error {
	if c.config.ScenarioDir == "" {
		return fmt.Errorf("must specify -scenario directory")
	}
	if c.config.Format == "" {
		c.config.Format = "text"
	}
	if !config.IsOutputFormat(c.config.Format) {
		return fmt.Errorf("unsupported output format: %s", c.config.Format)
	}
	if c.config.DefaultLoadPercentage.IsNegative() {
		return fmt.Errorf("default load percentage cannot be negative, got %s", c.config.DefaultLoadPercentage.String())
	}
	return nil
}

// printHeader prints the command header information
func (c *PayrollCommand) printHeader() {
	fmt.Printf("🚀 Freight Payroll CLI\n")
	fmt.Printf("Scenario: %s\n", c.config.ScenarioDir)
	if c.config.TruckloadID != "" {
		fmt.Printf("Truckload: %s\n", c.config.TruckloadID)
	}
	fmt.Printf("Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Printf("Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Println()
}

// showHelp displays the help message
func (c *PayrollCommand) showHelp() {
	fmt.Printf(`Freight Payroll - driver settlements for truckload freight

USAGE:
    freightpay payroll -scenario <directory> [OPTIONS]

OPTIONS:
    -scenario <dir>     Path to scenario directory containing CSV files
    -truckload <id>     Calculate a single truckload (default: all)
    -output <dir>       Output directory for results (optional for text and json)
    -format <fmt>       Output format: text, json, csv, html, pdf, xlsx (default: text)
    -snapshot           Save settlement snapshots to settlements.csv in the scenario directory
    -verbose            Enable verbose output
    -help               Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── truckloads.csv      # Driver runs
    ├── assignments.csv     # Order legs on each truckload
    ├── drivers.csv         # Driver load percentages (optional)
    ├── adjustments.csv     # Cross-driver, manual and split-load records (optional)
    ├── split_loads.csv     # Split-load configurations (optional)
    └── settlements.csv     # Settlement snapshots written by -snapshot

CSV FILE FORMATS:

truckloads.csv:
    truckload_id,driver_id,driver_name,start_date,end_date
    TL-100,DRV-1,Ana Reyes,2025-03-03,2025-03-07

drivers.csv:
    driver_id,load_percentage
    DRV-1,30.00

assignments.csv:
    assignment_id,order_id,truckload_id,type,sequence,freight_quote,assignment_quote,split_pending,pickup_customer,delivery_customer
    A-1,ORD-A,TL-100,delivery,1,500.00,,false,Acme Foods,Bay Grocers

adjustments.csv:
    id,category,truckload_id,order_id,amount,applies_to,is_addition,comment,driver_name,date,action,customer_name
    MAN-1,manual,TL-100,,50.00,load_value,false,fuel advance,,,,

split_loads.csv:
    order_id,full_quote,misc_value,full_side,applies_to
    ORD-B,400.00,150.00,delivery,load_value

EXAMPLES:
    # Print every truckload's statement
    freightpay payroll -scenario example/brokerage_week -verbose

    # One truckload as JSON
    freightpay payroll -scenario example/brokerage_week -truckload TL-100 -format json

    # Statement PDFs for the week
    freightpay payroll -scenario example/brokerage_week -format pdf -output results/
`)
}
