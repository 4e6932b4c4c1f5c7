package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "FREIGHTPAY"

	EnvAppEnv                = "FREIGHTPAY_APP_ENV"
	EnvLogLevel              = "FREIGHTPAY_LOG_LEVEL"
	EnvLogFormat             = "FREIGHTPAY_LOG_FORMAT"
	EnvDefaultLoadPercentage = "FREIGHTPAY_DEFAULT_LOAD_PERCENTAGE"
	EnvOutputFormat          = "FREIGHTPAY_OUTPUT_FORMAT"
	EnvOutputDir             = "FREIGHTPAY_OUTPUT_DIR"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// OutputFormats lists every renderer the CLI knows about.
var OutputFormats = []string{"text", "json", "csv", "html", "pdf", "xlsx"}

type Config struct {
	App     AppConfig
	Payroll PayrollConfig
	Output  OutputConfig
}

type AppConfig struct {
	Env       string `envconfig:"FREIGHTPAY_APP_ENV" default:"development"`
	LogLevel  string `envconfig:"FREIGHTPAY_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"FREIGHTPAY_LOG_FORMAT"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Format returns the log format, console in development and json otherwise
// unless one is set explicitly.
func (a AppConfig) Format() string {
	if a.LogFormat != "" {
		return a.LogFormat
	}
	if a.IsDev() {
		return "console"
	}
	return "json"
}

type PayrollConfig struct {
	DefaultLoadPercentage string `envconfig:"FREIGHTPAY_DEFAULT_LOAD_PERCENTAGE" default:"30.00"`
}

// LoadPercentage returns the configured fallback driver percentage.
func (p PayrollConfig) LoadPercentage() decimal.Decimal {
	pct, err := decimal.NewFromString(strings.TrimSpace(p.DefaultLoadPercentage))
	if err != nil {
		return decimal.NewFromInt(30)
	}
	return pct
}

type OutputConfig struct {
	Format string `envconfig:"FREIGHTPAY_OUTPUT_FORMAT" default:"text"`
	Dir    string `envconfig:"FREIGHTPAY_OUTPUT_DIR"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	if !c.App.IsDev() && !c.App.IsProd() {
		return fmt.Errorf("%s must be %s or %s, got %q", EnvAppEnv, AppEnvDev, AppEnvProd, c.App.Env)
	}
	pct, err := decimal.NewFromString(strings.TrimSpace(c.Payroll.DefaultLoadPercentage))
	if err != nil {
		return fmt.Errorf("%s must be a decimal, got %q", EnvDefaultLoadPercentage, c.Payroll.DefaultLoadPercentage)
	}
	if pct.IsNegative() {
		return fmt.Errorf("%s cannot be negative, got %s", EnvDefaultLoadPercentage, pct.String())
	}
	if !IsOutputFormat(c.Output.Format) {
		return fmt.Errorf("%s must be one of %s, got %q", EnvOutputFormat, strings.Join(OutputFormats, ", "), c.Output.Format)
	}
	return nil
}

func IsOutputFormat(format string) bool {
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
