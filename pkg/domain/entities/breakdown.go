package entities

import "github.com/shopspring/decimal"

// AdjustmentTotals is one category's records bucketed by sign and target
type AdjustmentTotals struct {
	DeductionsToLoadValue decimal.Decimal `json:"deductions_to_load_value"`
	AdditionsToLoadValue  decimal.Decimal `json:"additions_to_load_value"`
	DeductionsToDriverPay decimal.Decimal `json:"deductions_to_driver_pay"`
	AdditionsToDriverPay  decimal.Decimal `json:"additions_to_driver_pay"`
}

// AdjustmentSet carries the three categories as separate ledgers
type AdjustmentSet struct {
	CrossDriver []CrossDriverDeduction `json:"cross_driver"`
	Manual      []ManualAdjustment     `json:"manual"`
	SplitLoad   []SplitLoadAdjustment  `json:"split_load"`
}

// ContributionRule explains how an order row entered the total
type ContributionRule string

const (
	RuleFullQuote ContributionRule = "full_quote"
	RuleSplitFull ContributionRule = "split_full"
	RuleSplitMisc ContributionRule = "split_misc"
)

// QuoteContribution is one merged order row of the load value aggregation
type QuoteContribution struct {
	OrderID          OrderID          `json:"order_id"`
	Representative   AssignmentType   `json:"representative"`
	PickupSequence   *int             `json:"pickup_sequence,omitempty"`
	DeliverySequence *int             `json:"delivery_sequence,omitempty"`
	Transfer         bool             `json:"transfer"`
	Quote            decimal.Decimal  `json:"quote"`
	AssignmentQuote  *decimal.Decimal `json:"assignment_quote,omitempty"`
	Counted          decimal.Decimal  `json:"counted"`
	Rule             ContributionRule `json:"rule"`
}

// ExclusionReason says why an order row was left out of the totals
type ExclusionReason string

const (
	ExcludedMissingQuote     ExclusionReason = "missing_quote"
	ExcludedUnparseableQuote ExclusionReason = "unparseable_quote"
	ExcludedNegativeQuote    ExclusionReason = "negative_quote"
	ExcludedPendingSplit     ExclusionReason = "pending_split"
)

// ExcludedQuote is an advisory entry for an order left out of the totals
type ExcludedQuote struct {
	OrderID  OrderID         `json:"order_id"`
	RawValue string          `json:"raw_value"`
	Reason   ExclusionReason `json:"reason"`
}

// AdvisoryKind classifies non-fatal findings surfaced next to the numbers
type AdvisoryKind string

const (
	AdvisoryEqualSplit        AdvisoryKind = "equal_split"
	AdvisoryPercentageClamped AdvisoryKind = "load_percentage_clamped"
	AdvisoryMiscExceedsQuote  AdvisoryKind = "misc_exceeds_quote"
	AdvisoryDefaultPercentage AdvisoryKind = "default_load_percentage"
)

// Advisory is a non-fatal finding
type Advisory struct {
	Kind    AdvisoryKind `json:"kind"`
	OrderID OrderID      `json:"order_id,omitempty"`
	Message string       `json:"message"`
}

// PayrollBreakdown is the itemized Load Value → Driver Pay calculation.
// Every intermediate subtotal is kept for display.
type PayrollBreakdown struct {
	TotalQuotes          decimal.Decimal     `json:"total_quotes"`
	CrossDriver          AdjustmentTotals    `json:"cross_driver"`
	Manual               AdjustmentTotals    `json:"manual"`
	SplitLoad            AdjustmentTotals    `json:"split_load"`
	LoadValue            decimal.Decimal     `json:"load_value"`
	DriverLoadPercentage decimal.Decimal     `json:"driver_load_percentage"`
	BaseDriverPay        decimal.Decimal     `json:"base_driver_pay"`
	FinalDriverPay       decimal.Decimal     `json:"final_driver_pay"`
	Contributions        []QuoteContribution `json:"contributions"`
	Excluded             []ExcludedQuote     `json:"excluded"`
	Advisories           []Advisory          `json:"advisories"`
}
