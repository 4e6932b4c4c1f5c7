package payroll

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
)

// ParseQuote parses a freight quote as typed into the load board. Currency
// symbols, thousands separators and any other formatting are stripped; only
// digits, '.' and '-' survive. A value wrapped in parentheses is an
// accounting-style negative. It never fails: when the quote cannot be used
// the returned reason says why and ok is false.
func ParseQuote(raw *string) (value decimal.Decimal, reason entities.ExclusionReason, ok bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return decimal.Zero, entities.ExcludedMissingQuote, false
	}

	trimmed := strings.TrimSpace(*raw)
	parenthesized := strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")")

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, trimmed)
	if cleaned == "" {
		return decimal.Zero, entities.ExcludedUnparseableQuote, false
	}

	parsed, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, entities.ExcludedUnparseableQuote, false
	}
	if parenthesized && !parsed.IsZero() {
		parsed = parsed.Abs().Neg()
	}
	if parsed.IsNegative() {
		return decimal.Zero, entities.ExcludedNegativeQuote, false
	}
	return parsed, "", true
}

// ParseQuoteString is ParseQuote for a plain string
func ParseQuoteString(raw string) (decimal.Decimal, bool) {
	value, _, ok := ParseQuote(&raw)
	return value, ok
}
