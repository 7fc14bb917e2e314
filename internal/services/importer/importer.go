// Package importer reads portfolio positions from broker style CSV exports.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/findosh/finlearn/internal/models"
)

var (
	ErrUnknownFormat = errors.New("CSV header with instrument and share columns not found")
	ErrEmptyFile     = errors.New("CSV file is empty")
	ErrNoData        = errors.New("no valid positions found")
)

// Header keywords. Short ones must appear as a separate word of the column
// name so that "id" does not match "Dividende" or "Liquidität".
var (
	instrumentColumns = []string{"instrument", "ticker", "symbol", "wertpapier"}
	instrumentWords   = []string{"id"}
	sharesColumns     = []string{"shares", "quantity", "anteile", "stück", "stueck", "menge", "anzahl"}
)

// InstrumentResolver maps an ID or ticker to a catalog instrument
type InstrumentResolver interface {
	Resolve(ref string) (*models.Instrument, bool)
}

// Row is one importable position
type Row struct {
	Line         int     `json:"line"`
	InstrumentID string  `json:"instrument_id"`
	Shares       float64 `json:"shares"`
}

// Result holds the parsed rows and the lines that were skipped
type Result struct {
	Rows   []Row    `json:"rows"`
	Errors []string `json:"errors,omitempty"`
}

// Parse reads a CSV document. The separator may be a comma or a semicolon,
// the header may be preceded by preamble lines, and numbers may use German
// or English notation. Rows naming the same instrument are summed.
func Parse(r io.Reader, instruments InstrumentResolver) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	records, headerIdx, instCol, sharesCol := readTable(data)
	if headerIdx < 0 {
		return nil, ErrUnknownFormat
	}

	result := &Result{}
	index := make(map[string]int)
	for i := headerIdx + 1; i < len(records); i++ {
		row, line := records[i], i+1
		if isSkipRow(row) {
			continue
		}
		if instCol >= len(row) || sharesCol >= len(row) {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: missing columns", line))
			continue
		}

		inst, ok := instruments.Resolve(row[instCol])
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v %q", line, models.ErrUnknownInstrument, row[instCol]))
			continue
		}
		shares, err := parseNumber(row[sharesCol])
		if err != nil || !shares.IsPositive() {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, models.ErrInvalidShares))
			continue
		}

		if j, seen := index[inst.ID]; seen {
			sum := decimal.NewFromFloat(result.Rows[j].Shares).Add(shares)
			result.Rows[j].Shares = sum.InexactFloat64()
			continue
		}
		index[inst.ID] = len(result.Rows)
		result.Rows = append(result.Rows, Row{Line: line, InstrumentID: inst.ID, Shares: shares.InexactFloat64()})
	}

	if len(result.Rows) == 0 {
		return result, ErrNoData
	}
	return result, nil
}

// readTable tries the semicolon and the comma separator and returns the
// records with the position of the first header row naming both required
// columns. The header index is -1 when neither separator yields one.
func readTable(data []byte) ([][]string, int, int, int) {
	for _, sep := range []rune{';', ','} {
		csvReader := csv.NewReader(bytes.NewReader(data))
		csvReader.Comma = sep
		csvReader.FieldsPerRecord = -1
		csvReader.TrimLeadingSpace = true
		csvReader.LazyQuotes = true

		records, err := csvReader.ReadAll()
		if err != nil {
			continue
		}
		if headerIdx, instCol, sharesCol := findHeader(records); headerIdx >= 0 {
			return records, headerIdx, instCol, sharesCol
		}
	}
	return nil, -1, -1, -1
}

// findHeader returns the header row index and the instrument and share
// column positions, or -1 when no row names both.
func findHeader(records [][]string) (int, int, int) {
	for i, row := range records {
		instCol, sharesCol := -1, -1
		for j, cell := range row {
			cell = strings.ToLower(strings.TrimSpace(cell))
			if instCol < 0 && (containsAny(cell, instrumentColumns) || hasWord(cell, instrumentWords)) {
				instCol = j
			} else if sharesCol < 0 && containsAny(cell, sharesColumns) {
				sharesCol = j
			}
		}
		if instCol >= 0 && sharesCol >= 0 {
			return i, instCol, sharesCol
		}
	}
	return -1, -1, -1
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// hasWord reports whether one of the letter or digit runs of s equals a word
func hasWord(s string, words []string) bool {
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		for _, w := range words {
			if field == w {
				return true
			}
		}
	}
	return false
}

func isSkipRow(row []string) bool {
	if len(row) == 0 {
		return true
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	if first == "" && len(row) == 1 {
		return true
	}
	for _, prefix := range []string{"total", "summe", "gesamt", "--", "***"} {
		if strings.HasPrefix(first, prefix) {
			return true
		}
	}
	return false
}

// parseNumber accepts "1234.5", "1,234.5", "1.234,5" and "1234,5"
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")

	lastDot, lastComma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastDot > lastComma && lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	return decimal.NewFromString(s)
}
