// Package tabular parses and validates the CSV files the portal accepts:
// weekly price/quantity time series and project cost sheets. It also hosts
// the on-demand aggregation over raw time-series files.
package tabular

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TimeSeriesHeader is the exact header a time-series upload must carry
var TimeSeriesHeader = []string{"Wk", "Tier", "Groups", "Store", "Item_ID", "Qty_", "Price_"}

// CostSheetHeader is the exact header a cost-sheet upload must carry
var CostSheetHeader = []string{"Store", "Center", "iMenuCatNo", "Item", "iName", "Qty", "Cost", "Price", "Price_Floor", "Price_Cap"}

// checkFunc is one post-header validation pass. Each pass walks a fresh
// view of the data rows and accumulates cell errors instead of aborting.
type checkFunc struct {
	name string
	run  func(v *Verifier, errs CellErrors)
}

// Verifier holds a parsed upload positioned at its data rows. Every pass
// iterates the rows from the start, so repeated calls are idempotent and
// order-independent.
type Verifier struct {
	header []string
	rows   [][]string
	checks []checkFunc
}

// NewVerifier parses the upload and verifies its header against the
// expected list. Returns ErrUnreadableFile or ErrWrongHeader on failure.
func NewVerifier(data []byte, expected []string) (*Verifier, error) {
	if !utf8.Valid(data) {
		return nil, ErrUnreadableFile
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, ErrUnreadableFile
	}
	if len(records) == 0 {
		return nil, ErrWrongHeader
	}

	header := records[0]
	if len(header) != len(expected) {
		return nil, ErrWrongHeader
	}
	for i, field := range header {
		if strings.TrimSpace(field) != expected[i] {
			return nil, ErrWrongHeader
		}
	}

	return &Verifier{header: expected, rows: records[1:]}, nil
}

// NewTimeSeriesVerifier builds a verifier for a time-series upload with the
// standard cell-type checks registered.
func NewTimeSeriesVerifier(data []byte) (*Verifier, error) {
	v, err := NewVerifier(data, TimeSeriesHeader)
	if err != nil {
		return nil, err
	}
	v.checks = []checkFunc{
		{name: "cell types", run: (*Verifier).checkCellTypes},
	}
	return v, nil
}

// NewCostSheetVerifier builds a verifier for a cost-sheet upload. Cost
// sheets skip the generic cell-type pass: numeric parsing happens during
// item extraction instead.
func NewCostSheetVerifier(data []byte) (*Verifier, error) {
	return NewVerifier(data, CostSheetHeader)
}

// RunChecks runs every registered validation pass in order and returns the
// accumulated cell errors, or nil when the file is clean.
func (v *Verifier) RunChecks() error {
	errs := CellErrors{}
	for _, check := range v.checks {
		check.run(v, errs)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// checkCellTypes requires every non-Item_ID cell to parse as a float after
// trimming, and Item_ID cells to parse as integers. Empty cells and
// unparsable cells are reported separately; the pass never aborts early.
func (v *Verifier) checkCellTypes(errs CellErrors) {
	for rowIdx, row := range v.rows {
		rowNum := rowIdx + 2
		for colIdx, column := range v.header {
			value := ""
			if colIdx < len(row) {
				value = strings.TrimSpace(row[colIdx])
			}
			if value == "" {
				errs.Add(column, rowNum, "Empty cell")
				continue
			}
			if column == "Item_ID" {
				if _, err := strconv.Atoi(value); err != nil {
					errs.Add(column, rowNum, "Invalid value: "+value)
				}
				continue
			}
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				errs.Add(column, rowNum, "Invalid value: "+value)
			}
		}
	}
}

// Schema returns the distinct Item_ID values across all data rows, in first
// appearance order. Extraction is independent of the validation passes:
// cells that do not parse are simply skipped here.
func (v *Verifier) Schema() []int {
	col := v.columnIndex("Item_ID")
	if col < 0 {
		return nil
	}
	seen := make(map[int]bool)
	var ids []int
	for _, row := range v.rows {
		if col >= len(row) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(row[col]))
		if err != nil {
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func (v *Verifier) columnIndex(name string) int {
	for i, column := range v.header {
		if column == name {
			return i
		}
	}
	return -1
}
