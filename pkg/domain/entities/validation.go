package entities

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/vsinha/freightpay/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	// decimal.Decimal is a struct; compare it as a float so gt/gte/lte work
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		input := sl.Current().Interface().(AdjustmentInput)
		if input.Category == string(CategoryCrossDriver) && input.IsAddition {
			sl.ReportError(input.IsAddition, "is_addition", "IsAddition", "deduction_only", "")
		}
	}, AdjustmentInput{})
	return v
}

// ValidateAdjustmentInput rejects entries before they can reach a ledger
func ValidateAdjustmentInput(input AdjustmentInput) error {
	if err := validate.Struct(input); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// SplitInput is the entry form for configuring a split load
type SplitInput struct {
	OrderID   OrderID         `json:"order_id" validate:"required"`
	MiscValue decimal.Decimal `json:"misc_value" validate:"gt=0"`
	FullSide  string          `json:"full_side" validate:"required,oneof=pickup delivery"`
	AppliesTo string          `json:"applies_to" validate:"omitempty,oneof=load_value driver_pay"`
}

// ValidateSplitInput checks a split configuration request
func ValidateSplitInput(input SplitInput) error {
	if err := validate.Struct(input); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "deduction_only":
		return "cross-driver records are always deductions"
	}
	return "is invalid"
}
