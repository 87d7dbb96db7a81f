// Package series normalizes per-symbol quote records and merges them into
// chart and table projections. Every function is a pure transform; callers
// re-run it on each data refresh.
package series

import (
	"sort"

	"stock_dashboard/internal/feature/quotes/domain/entity"
)

// Dedupe collapses records that share a date into one record per date.
// A date with a single record passes through unchanged. Colliding records are
// replaced by a synthetic record holding their rounded means; identity fields
// come from the first record of the group.
// The result is ordered newest first.
func Dedupe(records []entity.QuoteRecord) []entity.QuoteRecord {
	if len(records) == 0 {
		return nil
	}

	groups := make(map[string][]entity.QuoteRecord, len(records))
	order := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := groups[r.Date]; !ok {
			order = append(order, r.Date)
		}
		groups[r.Date] = append(groups[r.Date], r)
	}

	out := make([]entity.QuoteRecord, 0, len(order))
	for _, date := range order {
		g := groups[date]
		if len(g) == 1 {
			out = append(out, g[0])
			continue
		}
		out = append(out, average(date, g))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// average builds the synthetic record for a group of same-date records.
func average(date string, g []entity.QuoteRecord) entity.QuoteRecord {
	first := g[0]
	return entity.QuoteRecord{
		Date:       date,
		Code:       first.Code,
		Name:       first.Name,
		Market:     first.Market,
		Close:      formatFixed(roundHalfUp(mean(g, func(r entity.QuoteRecord) string { return r.Close }), 0), 0),
		Change:     formatFixed(roundHalfUp(mean(g, func(r entity.QuoteRecord) string { return r.Change }), 0), 0),
		ChangeRate: formatFixed(roundHalfUp(mean(g, func(r entity.QuoteRecord) string { return r.ChangeRate }), 2), 2),
		Open:       formatFixed(roundHalfUp(mean(g, func(r entity.QuoteRecord) string { return r.Open }), 0), 0),
		High:       formatFixed(roundHalfUp(mean(g, func(r entity.QuoteRecord) string { return r.High }), 0), 0),
		Low:        formatFixed(roundHalfUp(mean(g, func(r entity.QuoteRecord) string { return r.Low }), 0), 0),
		Volume:     formatFixed(roundHalfUp(mean(g, func(r entity.QuoteRecord) string { return r.Volume }), 0), 0),
	}
}

func mean(g []entity.QuoteRecord, field func(entity.QuoteRecord) string) float64 {
	var sum float64
	for _, r := range g {
		sum += parseNumber(field(r))
	}
	return sum / float64(len(g))
}
