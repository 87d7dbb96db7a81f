package series

import (
	"math"
	"sort"

	"github.com/Rhymond/go-money"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"stock_dashboard/internal/feature/quotes/domain/entity"
)

// DefaultPerPage is the table page size used by the dashboard.
const DefaultPerPage = 10

// TableRow is one (symbol, date) row of the table projection.
type TableRow struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Price        string `json:"price"`        // close with thousands separators
	DisplayPrice string `json:"displayPrice"` // close formatted in the market currency
	Change       string `json:"change"`       // raw provider value
	ChangeRate   string `json:"changeRate"`   // two decimals
	Volume       string `json:"volume"`       // thousands separators
	Date         string `json:"date"`         // YYYYMMDD
	DisplayDate  string `json:"displayDate"`  // YYYY-MM-DD
}

// TablePage is one page of table rows.
type TablePage struct {
	Rows       []TableRow `json:"rows"`
	Page       int        `json:"page"`
	PerPage    int        `json:"perPage"`
	TotalRows  int        `json:"totalRows"`
	TotalPages int        `json:"totalPages"`
}

// FlattenTable de-duplicates each tracked symbol's records and flattens them
// into one row per symbol and date, newest first across all symbols.
// When filter is non-empty only the symbol with that code is included.
func FlattenTable(market entity.Market, tracked []entity.TrackedSymbol, data map[string][]entity.QuoteRecord, filter string) []TableRow {
	var out []TableRow
	for _, sym := range UniqueSymbols(tracked) {
		if filter != "" && sym.Code != filter {
			continue
		}
		for _, rec := range Dedupe(data[sym.Code]) {
			out = append(out, toTableRow(market, sym, rec))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// UniqueSymbols drops repeated codes, keeping the first occurrence and the
// original order.
func UniqueSymbols(tracked []entity.TrackedSymbol) []entity.TrackedSymbol {
	seen := make(map[string]struct{}, len(tracked))
	out := make([]entity.TrackedSymbol, 0, len(tracked))
	for _, sym := range tracked {
		if _, ok := seen[sym.Code]; ok {
			continue
		}
		seen[sym.Code] = struct{}{}
		out = append(out, sym)
	}
	return out
}

// Paginate returns the requested page of rows. The page is clamped to the
// available range; perPage <= 0 uses DefaultPerPage.
func Paginate(rows []TableRow, page, perPage int) TablePage {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(rows)
	pages := (total + perPage - 1) / perPage
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	pageRows := make([]TableRow, end-start)
	copy(pageRows, rows[start:end])
	return TablePage{
		Rows:       pageRows,
		Page:       page,
		PerPage:    perPage,
		TotalRows:  total,
		TotalPages: pages,
	}
}

func toTableRow(market entity.Market, sym entity.TrackedSymbol, rec entity.QuoteRecord) TableRow {
	closePrice := parseNumber(rec.Close)
	return TableRow{
		Code:         sym.Code,
		Name:         sym.Name,
		Price:        formatPrice(market, closePrice),
		DisplayPrice: displayPrice(market, closePrice),
		Change:       rec.Change,
		ChangeRate:   formatFixed(parseNumber(rec.ChangeRate), 2),
		Volume:       formatInteger(parseNumber(rec.Volume)),
		Date:         rec.Date,
		DisplayDate:  displayDate(rec.Date),
	}
}

// formatPrice mirrors how each market is quoted: whole won for KR, cents for US.
func formatPrice(market entity.Market, v float64) string {
	if market == entity.MarketUS {
		if !finite(v) {
			return formatFixed(v, 2)
		}
		return humanize.FormatFloat("#,###.##", v)
	}
	return formatInteger(v)
}

func formatInteger(v float64) string {
	if !finite(v) {
		return formatFixed(v, 0)
	}
	return humanize.Comma(int64(math.Trunc(v)))
}

func displayPrice(market entity.Market, v float64) string {
	if !finite(v) {
		return formatFixed(v, 0)
	}
	code := market.Currency()
	cur := money.GetCurrency(code)
	factor := decimal.New(1, int32(cur.Fraction))
	minor := decimal.NewFromFloat(v).Mul(factor).Round(0).IntPart()
	return money.New(minor, code).Display()
}

func displayDate(d string) string {
	if len(d) != 8 {
		return d
	}
	return d[0:4] + "-" + d[4:6] + "-" + d[6:8]
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
