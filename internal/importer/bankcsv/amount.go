package bankcsv

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseStatementAmount parses the amount formats that show up in bank
// exports: "1,234.56", "$-45.00", "(45.00)" for negatives, and the European
// "1.234,56" shape.
func parseStatementAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)

	// Accountant negatives: (45.00) means -45.00.
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = "-" + strings.Trim(clean, "()")
	}

	// The currency symbol may sit before or after the sign.
	clean = strings.Replace(clean, "$", "", 1)

	if isEuropean(clean) {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}

// isEuropean reports whether the string uses comma as the decimal separator.
// A comma in the last three characters with no dot after it is the tell.
func isEuropean(s string) bool {
	lastComma := strings.LastIndex(s, ",")
	if lastComma == -1 {
		return false
	}

	lastDot := strings.LastIndex(s, ".")

	return lastComma > lastDot && len(s)-lastComma <= 3
}
