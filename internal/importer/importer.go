// Package importer turns bank CSV exports into review-status transactions
// against the bank feed account they came from.
package importer

import (
	"io"

	"github.com/centbook/centbook/internal/importer/row"
)

// Row is one bank statement line. Amount is signed from the bank account's
// point of view: positive for money in, negative for money out.
type Row = row.Row

// Parser reads a statement export and produces rows.
type Parser interface {
	Parse(r io.Reader) ([]Row, error)
}
