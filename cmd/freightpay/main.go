package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vsinha/freightpay/pkg/config"
	"github.com/vsinha/freightpay/pkg/interfaces/cli/commands"
	"github.com/vsinha/freightpay/pkg/logger"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "freightpay",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.Format(),
	})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cmd, err := parseCommand(os.Args[1], os.Args[2:], cfg, log)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if cmd == nil {
		return
	}

	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseCommand(name string, args []string, cfg *config.Config, log *logger.Logger) (command, error) {
	switch name {
	case "payroll":
		fs := flag.NewFlagSet("payroll", flag.ContinueOnError)
		var (
			scenarioDir = fs.String("scenario", "", "Path to scenario directory containing CSV files")
			truckload   = fs.String("truckload", "", "Calculate a single truckload")
			outputDir   = fs.String("output", cfg.Output.Dir, "Output directory for results")
			format      = fs.String("format", cfg.Output.Format, "Output format: text, json, csv, html, pdf, xlsx")
			snapshot    = fs.Bool("snapshot", false, "Save settlement snapshots to the scenario directory")
			verbose     = fs.Bool("verbose", false, "Enable verbose output")
			help        = fs.Bool("help", false, "Show help message")
		)
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return commands.NewPayrollCommand(commands.PayrollConfig{
			ScenarioDir:           *scenarioDir,
			TruckloadID:           *truckload,
			OutputDir:             *outputDir,
			Format:                *format,
			DefaultLoadPercentage: cfg.Payroll.LoadPercentage(),
			Snapshot:              *snapshot,
			Verbose:               *verbose,
			Help:                  *help,
			Logger:                log,
		}), nil

	case "split":
		fs := flag.NewFlagSet("split", flag.ContinueOnError)
		var (
			scenarioDir = fs.String("scenario", "", "Path to scenario directory containing CSV files")
			orderID     = fs.String("order", "", "Order to split")
			misc        = fs.String("misc", "", "Portion of the quote carried by the other leg")
			fullSide    = fs.String("full-side", "", "Leg that keeps the quote less the misc value: pickup or delivery")
			appliesTo   = fs.String("applies-to", "load_value", "load_value or driver_pay")
			clearSplit  = fs.Bool("clear", false, "Remove the split and its records")
			dryRun      = fs.Bool("dry-run", false, "Print the result without writing the scenario")
			verbose     = fs.Bool("verbose", false, "Enable verbose output")
			help        = fs.Bool("help", false, "Show help message")
		)
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return commands.NewSplitCommand(commands.SplitConfig{
			ScenarioDir: *scenarioDir,
			OrderID:     *orderID,
			MiscValue:   *misc,
			FullSide:    *fullSide,
			AppliesTo:   *appliesTo,
			Clear:       *clearSplit,
			DryRun:      *dryRun,
			Verbose:     *verbose,
			Help:        *help,
			Logger:      log,
		}), nil

	case "quote":
		fs := flag.NewFlagSet("quote", flag.ContinueOnError)
		var (
			scenarioDir  = fs.String("scenario", "", "Path to scenario directory containing CSV files")
			assignmentID = fs.String("assignment", "", "Assignment to edit")
			value        = fs.String("value", "", "New quote as entered; empty clears it")
			verbose      = fs.Bool("verbose", false, "Enable verbose output")
			help         = fs.Bool("help", false, "Show help message")
		)
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return commands.NewQuoteCommand(commands.QuoteConfig{
			ScenarioDir:  *scenarioDir,
			AssignmentID: *assignmentID,
			Value:        *value,
			Verbose:      *verbose,
			Help:         *help,
			Logger:       log,
		}), nil

	case "generate":
		fs := flag.NewFlagSet("generate", flag.ContinueOnError)
		var (
			outputDir  = fs.String("output", "", "Output directory for generated files")
			truckloads = fs.Int("truckloads", 6, "Number of truckloads to generate")
			orders     = fs.Int("orders", 20, "Number of orders to generate")
			splits     = fs.Int("splits", 3, "Number of orders to configure as split loads")
			seed       = fs.Int64("seed", 0, "Random seed for reproducible generation")
			verbose    = fs.Bool("verbose", false, "Enable verbose output")
			help       = fs.Bool("help", false, "Show help message")
		)
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return commands.NewGenerateCommand(commands.GenerateConfig{
			Truckloads: *truckloads,
			Orders:     *orders,
			Splits:     *splits,
			OutputDir:  *outputDir,
			Seed:       *seed,
			Verbose:    *verbose,
			Help:       *help,
			Logger:     log,
		}), nil

	case "help", "-help", "--help", "-h":
		printUsage()
		return nil, nil

	default:
		printUsage()
		return nil, fmt.Errorf("unknown command: %s", name)
	}
}

func printUsage() {
	fmt.Printf(`freightpay - truckload payroll and split-load settlements

USAGE:
    freightpay <command> [OPTIONS]

COMMANDS:
    payroll     Calculate driver pay statements for a scenario
    split       Configure or clear a split load
    quote       Edit the freight quote of an assignment
    generate    Generate a random scenario
    help        Show this help message

Run "freightpay <command> -help" for command options.

ENVIRONMENT:
    FREIGHTPAY_LOG_LEVEL                 debug, info, warn, error (default: info)
    FREIGHTPAY_APP_ENV                   development or production (default: development)
    FREIGHTPAY_LOG_FORMAT                json or console (default: console in development, json in production)
    FREIGHTPAY_DEFAULT_LOAD_PERCENTAGE   Load percentage for drivers without one (default: 30.00)
    FREIGHTPAY_OUTPUT_FORMAT             Default payroll output format (default: text)
    FREIGHTPAY_OUTPUT_DIR                Default payroll output directory
`)
}
