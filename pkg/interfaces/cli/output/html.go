package output

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/application/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

// StatementView is one truckload as the HTML template sees it
type StatementView struct {
	*dto.PayrollStatement
	Lines []breakdownLine
}

// TemplateData contains all data for rendering the HTML template
type TemplateData struct {
	Statements               []StatementView
	Splits                   []dto.SplitSummary
	TotalDriverPay           string
	ScenarioDir              string
	CalculationTimeFormatted string
	GeneratedAt              string
}

var templateFuncs = template.FuncMap{
	"money": formatMoney,
	"fixed": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  formatDate,
	"optionalFixed": func(d *decimal.Decimal) string {
		if d == nil {
			return ""
		}
		return d.StringFixed(2)
	},
}

// RenderHTML renders the run into a standalone HTML document
func RenderHTML(run *dto.PayrollRun, config Config) (string, error) {
	data := &TemplateData{
		Splits:                   run.Splits,
		TotalDriverPay:           formatMoney(run.TotalDriverPay()),
		ScenarioDir:              config.ScenarioDir,
		CalculationTimeFormatted: formatDuration(config.CalculationTime),
		GeneratedAt:              time.Now().Format("2006-01-02 15:04:05"),
	}
	for _, statement := range run.Statements {
		data.Statements = append(data.Statements, StatementView{
			PayrollStatement: statement,
			Lines:            breakdownLines(statement.Breakdown),
		})
	}

	tmpl, err := template.New("statements.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/statements.html")
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// generateHTMLOutput creates HTML output file
func generateHTMLOutput(run *dto.PayrollRun, config Config) error {
	if err := requireOutputDir(config); err != nil {
		return err
	}

	html, err := RenderHTML(run, config)
	if err != nil {
		return fmt.Errorf("failed to generate HTML statements: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "  📝 Generated HTML document (%d bytes)\n", len(html))
	}

	filename := filepath.Join(config.OutputDir, htmlFilename)
	if err := os.WriteFile(filename, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "🌐 HTML statements saved to: %s\n", filename)
	}
	return nil
}

// formatDuration formats a time duration into human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "< 1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
