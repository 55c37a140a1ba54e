package ledger

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders an amount as en-US currency with thousands grouping and
// exactly two fraction digits. Negative amounts carry the sign before the
// currency symbol: -$25.00, never $-25.00.
func FormatUSD(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder

	if neg {
		b.WriteByte('-')
	}

	b.WriteByte('$')

	// Group the integer digits through the locale printer. Amounts beyond
	// int64 dollars fall back to ungrouped digits.
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		b.WriteString(usd.Sprintf("%d", n))
	} else {
		b.WriteString(whole)
	}

	b.WriteByte('.')
	b.WriteString(frac)

	return b.String()
}
