// Package bankcsv parses bank CSV exports. The bank is not a parameter: the
// parser matches column headers against known profiles and picks the first
// layout that fits.
package bankcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/centbook/centbook/internal/encoding"
	improw "github.com/centbook/centbook/internal/importer/row"
)

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// dateLayouts are tried in order for every date cell.
var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"02-01-2006",
}

func (p *Parser) Parse(r io.Reader) ([]improw.Row, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	// Delimiter is part of the profile, so each candidate gets its own read.
	for _, comma := range []rune{',', ';'} {
		reader := csv.NewReader(strings.NewReader(string(raw)))
		reader.Comma = comma
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		rows, err := reader.ReadAll()
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows, comma)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:])
	}

	return nil, fmt.Errorf("no known statement layout matches the file's columns")
}

// colIndex maps column names to their index in the header row.
type colIndex map[string]int

func detectProfile(rows [][]string, comma rune) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].Comma != comma {
				continue
			}

			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

func parseRows(p *Profile, cols colIndex, rows [][]string) ([]improw.Row, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var out []improw.Row

	for _, row := range rows {
		date, ok := parseDate(row, dateIdx)
		if !ok {
			// Footer totals and blank separators fail date parsing.
			continue
		}

		desc := cellValue(row, descIdx)

		amount, ok := rowAmount(p, cols, row)
		if !ok {
			continue
		}

		out = append(out, improw.Row{
			Date:        date,
			Description: desc,
			Amount:      amount,
		})
	}

	return out, nil
}

func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func rowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, bool) {
	switch p.AmountMode {
	case amountSingle:
		return singleAmount(row, cols[p.AmountCol])
	case amountSplit:
		return splitAmount(row, cols[p.DebitCol], cols[p.CreditCol])
	}

	return decimal.Zero, false
}

func singleAmount(row []string, idx int) (decimal.Decimal, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseStatementAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}

// splitAmount reads separate debit/credit columns. Debit on a bank statement
// is money leaving the account, so it becomes a negative row amount.
func splitAmount(row []string, debitIdx, creditIdx int) (decimal.Decimal, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		if d, err := parseStatementAmount(s); err == nil && !d.IsZero() {
			return d.Abs().Neg(), true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		if d, err := parseStatementAmount(s); err == nil && !d.IsZero() {
			return d.Abs(), true
		}
	}

	return decimal.Zero, false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
