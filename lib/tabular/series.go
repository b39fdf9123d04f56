package tabular

import (
	"sort"
	"strconv"
	"strings"
)

// MaxQueryItems bounds how many items one series query may request
const MaxQueryItems = 10

// ItemSeries is one item's sequence of observed or aggregated values
type ItemSeries struct {
	Item   int       `json:"item"`
	Values []float64 `json:"values"`
}

// ItemAverage is one item's mean price over the whole file
type ItemAverage struct {
	Item    int     `json:"item"`
	Average float64 `json:"average"`
}

type observation struct {
	item  int
	week  int
	qty   float64
	price float64
}

// Series aggregates a raw time-series upload on demand. It re-reads the
// parsed rows on every call: cost is proportional to file size per query,
// nothing is cached.
type Series struct {
	obs []observation
}

// NewSeries parses a time-series upload for aggregation. Rows whose cells
// do not parse are skipped; uploads are validated separately at ingestion.
func NewSeries(data []byte) (*Series, error) {
	v, err := NewVerifier(data, TimeSeriesHeader)
	if err != nil {
		return nil, err
	}
	wkCol := v.columnIndex("Wk")
	itemCol := v.columnIndex("Item_ID")
	qtyCol := v.columnIndex("Qty_")
	priceCol := v.columnIndex("Price_")

	s := &Series{}
	for _, row := range v.rows {
		item, okItem := parseIntCell(row, itemCol)
		week, okWeek := parseFloatCell(row, wkCol)
		qty, okQty := parseFloatCell(row, qtyCol)
		price, okPrice := parseFloatCell(row, priceCol)
		if !okItem || !okWeek || !okQty || !okPrice {
			continue
		}
		s.obs = append(s.obs, observation{
			item:  item,
			week:  int(week),
			qty:   qty,
			price: price,
		})
	}
	return s, nil
}

// Prices returns the literal sequence of price observations per requested
// item, in file order, items sorted ascending. At most MaxQueryItems items
// may be requested per call.
func (s *Series) Prices(items []int) ([]ItemSeries, error) {
	if len(items) > MaxQueryItems {
		return nil, ErrQuerySizeExceeded
	}
	wanted := toSet(items)
	byItem := make(map[int][]float64)
	for _, o := range s.obs {
		if wanted[o.item] {
			byItem[o.item] = append(byItem[o.item], o.price)
		}
	}
	return sortedSeries(byItem), nil
}

// Quantities sums quantity observations per (item, week) and zero-fills
// every week below each item's maximum observed week, so series start at
// week 1 with no gaps. At most MaxQueryItems items per call.
func (s *Series) Quantities(items []int) ([]ItemSeries, error) {
	if len(items) > MaxQueryItems {
		return nil, ErrQuerySizeExceeded
	}
	wanted := toSet(items)
	sums := make(map[int]map[int]float64)
	maxWeek := make(map[int]int)
	for _, o := range s.obs {
		if !wanted[o.item] {
			continue
		}
		if sums[o.item] == nil {
			sums[o.item] = make(map[int]float64)
		}
		sums[o.item][o.week] += o.qty
		if o.week > maxWeek[o.item] {
			maxWeek[o.item] = o.week
		}
	}

	byItem := make(map[int][]float64, len(sums))
	for item, weeks := range sums {
		values := make([]float64, maxWeek[item])
		for week, qty := range weeks {
			if week >= 1 && week <= maxWeek[item] {
				values[week-1] = qty
			}
		}
		byItem[item] = values
	}
	return sortedSeries(byItem), nil
}

// AveragePrices computes the arithmetic mean price per item across the
// entire file, items sorted ascending.
func (s *Series) AveragePrices() []ItemAverage {
	totals := make(map[int]float64)
	counts := make(map[int]int)
	for _, o := range s.obs {
		totals[o.item] += o.price
		counts[o.item]++
	}

	averages := make([]ItemAverage, 0, len(totals))
	for item, total := range totals {
		averages = append(averages, ItemAverage{
			Item:    item,
			Average: total / float64(counts[item]),
		})
	}
	sort.Slice(averages, func(i, j int) bool { return averages[i].Item < averages[j].Item })
	return averages
}

func toSet(items []int) map[int]bool {
	set := make(map[int]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func sortedSeries(byItem map[int][]float64) []ItemSeries {
	series := make([]ItemSeries, 0, len(byItem))
	for item, values := range byItem {
		series = append(series, ItemSeries{Item: item, Values: values})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Item < series[j].Item })
	return series
}

// ParseItemList parses a comma-separated list of item ids, as carried in
// the "items" query parameter.
func ParseItemList(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	items := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	return items, nil
}
