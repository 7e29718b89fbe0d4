package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount coerces a loosely-typed amount value from the data store into
// a dollar decimal. Admin-entered rows carry strings like "$1,250.50";
// malformed values become zero so aggregate computation stays total.
func ParseAmount(v interface{}) decimal.Decimal {
	switch a := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return a
	case float64:
		return decimal.NewFromFloat(a)
	case float32:
		return decimal.NewFromFloat32(a)
	case int:
		return decimal.NewFromInt(int64(a))
	case int64:
		return decimal.NewFromInt(a)
	case string:
		s := strings.TrimSpace(a)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}

// feeTagAliases maps normalized free-text fee tags to fee types. The manual
// transfer ledger is hand-entered, so spelling drifts.
var feeTagAliases = map[string]FeeType{
	"selection_process":     FeeSelectionProcess,
	"selection_process_fee": FeeSelectionProcess,
	"selection":             FeeSelectionProcess,
	"application":           FeeApplication,
	"application_fee":       FeeApplication,
	"scholarship":           FeeScholarship,
	"scholarship_fee":       FeeScholarship,
	"i20":                   FeeI20Control,
	"i20_control":           FeeI20Control,
	"i20_control_fee":       FeeI20Control,
	"i20_fee":               FeeI20Control,
}

// NormalizeFeeTag maps a free-text fee tag to its fee type. The second
// return value is false when the tag matches nothing, which callers treat
// as "no evidence".
func NormalizeFeeTag(tag string) (FeeType, bool) {
	s := strings.ToLower(strings.TrimSpace(tag))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	// "I-20" normalizes to "i_20"; collapse it to the canonical spelling
	s = strings.ReplaceAll(s, "i_20", "i20")

	fee, ok := feeTagAliases[s]
	return fee, ok
}

// NormalizeMethod maps a free-text payment-method field to a PaymentMethod,
// falling back to def when the field is empty or unknown.
func NormalizeMethod(raw string, def PaymentMethod) PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "stripe", "card", "credit_card":
		return MethodStripe
	case "zelle":
		return MethodZelle
	case "manual", "admin":
		return MethodManual
	}
	return def
}
