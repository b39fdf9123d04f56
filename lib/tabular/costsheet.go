package tabular

import (
	"strconv"
	"strings"
)

// CostSheetItem is the authoritative metadata extracted for one item code
type CostSheetItem struct {
	Name  string
	Cost  float64
	Floor float64
	Cap   float64
}

// Items extracts the item directory from a cost-sheet upload: a mapping
// from item code to name, cost and price band. When an item code repeats
// across rows the bands are reconciled by widening: minimum floor and
// maximum cap seen so far, keeping the first-seen name and cost.
//
// Rows whose numeric cells do not parse are reported as CellErrors; a
// floor exceeding its cap is the caller's concern, not this pass's.
func (v *Verifier) Items() (map[int]CostSheetItem, error) {
	itemCol := v.columnIndex("Item")
	nameCol := v.columnIndex("iName")
	costCol := v.columnIndex("Cost")
	floorCol := v.columnIndex("Price_Floor")
	capCol := v.columnIndex("Price_Cap")
	if itemCol < 0 || nameCol < 0 || costCol < 0 || floorCol < 0 || capCol < 0 {
		return nil, ErrWrongHeader
	}

	errs := CellErrors{}
	items := make(map[int]CostSheetItem)
	for rowIdx, row := range v.rows {
		rowNum := rowIdx + 2
		code, ok := parseIntCell(row, itemCol)
		if !ok {
			errs.Add("Item", rowNum, "Invalid value: "+cell(row, itemCol))
			continue
		}
		cost, okCost := parseFloatCell(row, costCol)
		floor, okFloor := parseFloatCell(row, floorCol)
		cap, okCap := parseFloatCell(row, capCol)
		if !okCost {
			errs.Add("Cost", rowNum, "Invalid value: "+cell(row, costCol))
		}
		if !okFloor {
			errs.Add("Price_Floor", rowNum, "Invalid value: "+cell(row, floorCol))
		}
		if !okCap {
			errs.Add("Price_Cap", rowNum, "Invalid value: "+cell(row, capCol))
		}
		if !okCost || !okFloor || !okCap {
			continue
		}

		existing, seen := items[code]
		if !seen {
			items[code] = CostSheetItem{
				Name:  cell(row, nameCol),
				Cost:  cost,
				Floor: floor,
				Cap:   cap,
			}
			continue
		}
		if floor < existing.Floor {
			existing.Floor = floor
		}
		if cap > existing.Cap {
			existing.Cap = cap
		}
		items[code] = existing
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return items, nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func parseIntCell(row []string, col int) (int, bool) {
	n, err := strconv.Atoi(cell(row, col))
	return n, err == nil
}

func parseFloatCell(row []string, col int) (float64, bool) {
	f, err := strconv.ParseFloat(cell(row, col), 64)
	return f, err == nil
}
