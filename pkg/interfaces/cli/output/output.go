package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vsinha/freightpay/pkg/application/dto"
)

const (
	jsonFilename          = "payroll_statements.json"
	summaryFilename       = "payroll_summary.csv"
	contributionsFilename = "payroll_contributions.csv"
	htmlFilename          = "payroll_statements.html"
	pdfFilename           = "payroll_statements.pdf"
	xlsxFilename          = "payroll_statements.xlsx"
)

// Config holds configuration for output generation
type Config struct {
	Format          string
	OutputDir       string
	Verbose         bool
	CalculationTime time.Duration
	ScenarioDir     string

	// Out receives stdout-bound output; nil means os.Stdout
	Out io.Writer
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Generate renders a payroll run in the configured format
func Generate(run *dto.PayrollRun, config Config) error {
	if run == nil {
		return fmt.Errorf("no payroll run to render")
	}

	switch config.Format {
	case "text", "":
		return generateTextOutput(run, config)
	case "json":
		return generateJSONOutput(run, config)
	case "csv":
		return generateCSVOutput(run, config)
	case "html":
		return generateHTMLOutput(run, config)
	case "pdf":
		return generatePDFOutput(run, config)
	case "xlsx":
		return generateXLSXOutput(run, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateJSONOutput writes the run as indented JSON
func generateJSONOutput(run *dto.PayrollRun, config Config) error {
	jsonData, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.out(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, jsonFilename)
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes one summary row per truckload and one row per
// counted or excluded order
func generateCSVOutput(run *dto.PayrollRun, config Config) error {
	if err := requireOutputDir(config); err != nil {
		return err
	}

	summaryFile := filepath.Join(config.OutputDir, summaryFilename)
	if err := writeCSV(summaryFile, summaryHeader, summaryRows(run)); err != nil {
		return fmt.Errorf("failed to write payroll summary CSV: %w", err)
	}

	contributionsFile := filepath.Join(config.OutputDir, contributionsFilename)
	if err := writeCSV(contributionsFile, contributionsHeader, contributionRows(run)); err != nil {
		return fmt.Errorf("failed to write contributions CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 CSV results saved to:\n")
		fmt.Fprintf(config.out(), "  Summary: %s\n", summaryFile)
		fmt.Fprintf(config.out(), "  Contributions: %s\n", contributionsFile)
	}
	return nil
}

var summaryHeader = []string{
	"truckload_id", "driver_id", "driver_name", "start_date", "end_date",
	"total_quotes", "load_value", "driver_load_percentage", "base_driver_pay",
	"final_driver_pay", "used_default_percentage", "excluded_orders",
}

var contributionsHeader = []string{
	"truckload_id", "order_id", "representative", "transfer", "quote",
	"assignment_quote", "counted", "rule", "excluded_reason",
}

func summaryRows(run *dto.PayrollRun) [][]string {
	rows := make([][]string, 0, len(run.Statements))
	for _, s := range run.Statements {
		b := s.Breakdown
		rows = append(rows, []string{
			string(s.TruckloadID),
			string(s.DriverID),
			s.DriverName,
			formatDate(s.StartDate),
			formatDate(s.EndDate),
			b.TotalQuotes.StringFixed(2),
			b.LoadValue.StringFixed(2),
			b.DriverLoadPercentage.StringFixed(2),
			b.BaseDriverPay.StringFixed(2),
			b.FinalDriverPay.StringFixed(2),
			strconv.FormatBool(s.UsedDefaultPercentage),
			strconv.Itoa(len(b.Excluded)),
		})
	}
	return rows
}

func contributionRows(run *dto.PayrollRun) [][]string {
	var rows [][]string
	for _, s := range run.Statements {
		for _, c := range s.Breakdown.Contributions {
			assignmentQuote := ""
			if c.AssignmentQuote != nil {
				assignmentQuote = c.AssignmentQuote.StringFixed(2)
			}
			rows = append(rows, []string{
				string(s.TruckloadID),
				string(c.OrderID),
				c.Representative.String(),
				strconv.FormatBool(c.Transfer),
				c.Quote.StringFixed(2),
				assignmentQuote,
				c.Counted.StringFixed(2),
				string(c.Rule),
				"",
			})
		}
		for _, e := range s.Breakdown.Excluded {
			rows = append(rows, []string{
				string(s.TruckloadID),
				string(e.OrderID),
				"", "", "", "", "0.00", "",
				string(e.Reason),
			})
		}
	}
	return rows
}

func writeCSV(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

// requireOutputDir creates the output directory of a file-only format
func requireOutputDir(config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for %s format", config.Format)
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
