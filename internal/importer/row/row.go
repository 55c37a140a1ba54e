// Package row holds the bank statement row type shared by the importer and
// its CSV parser, so the two packages don't form an import cycle.
package row

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row is one bank statement line. Amount is signed from the bank account's
// point of view: positive for money in, negative for money out.
type Row struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}
