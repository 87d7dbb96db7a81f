package series

import (
	"encoding/json"
	"math"
	"sort"

	"stock_dashboard/internal/feature/quotes/domain/entity"
)

// ChartRow is one date of the chart projection: the closing price of every
// tracked symbol that traded on that date, keyed by display name.
type ChartRow struct {
	Date   string
	Values map[string]float64
}

// MarshalJSON renders the row as a flat object {"date": ..., "<name>": close}.
// Non-finite closes are written as null.
func (r ChartRow) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Values)+1)
	for name, v := range r.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			m[name] = nil
			continue
		}
		m[name] = v
	}
	m["date"] = r.Date
	return json.Marshal(m)
}

// MergeChart de-duplicates each tracked symbol's records and folds them into
// date-keyed rows, oldest first. Symbols without records add no column.
func MergeChart(tracked []entity.TrackedSymbol, data map[string][]entity.QuoteRecord) []ChartRow {
	byDate := make(map[string]*ChartRow)
	for _, sym := range UniqueSymbols(tracked) {
		for _, rec := range Dedupe(data[sym.Code]) {
			row, ok := byDate[rec.Date]
			if !ok {
				row = &ChartRow{Date: rec.Date, Values: make(map[string]float64)}
				byDate[rec.Date] = row
			}
			row.Values[sym.Name] = parseNumber(rec.Close)
		}
	}

	out := make([]ChartRow, 0, len(byDate))
	for _, row := range byDate {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
