package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	quotes "stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/quotes/domain/series"
	symbols "stock_dashboard/internal/feature/symbols/domain/entity"
)

const emptyMessage = "_데이터가 없습니다._\n"

// printMarkdown はmdをターミナル向けに描画して書き出します。rawならそのまま書き出します。
func printMarkdown(w io.Writer, md string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// writeTable はmarkdownの表を書き出します。
func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(header)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
}

func seriesMarkdown(market quotes.Market, code string, recs []quotes.QuoteRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", market, code)
	if len(recs) == 0 {
		b.WriteString(emptyMessage)
		return b.String()
	}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{r.Date, r.Close, r.Change, r.ChangeRate, r.Open, r.High, r.Low, r.Volume})
	}
	writeTable(&b, []string{"Date", "Close", "Change", "Rate %", "Open", "High", "Low", "Volume"}, rows)
	return b.String()
}

func chartMarkdown(tracked []quotes.TrackedSymbol, chart []series.ChartRow) string {
	var b strings.Builder
	b.WriteString("# Chart\n\n")
	if len(chart) == 0 {
		b.WriteString(emptyMessage)
		return b.String()
	}
	header := []string{"Date"}
	for _, s := range tracked {
		header = append(header, s.Name)
	}
	rows := make([][]string, 0, len(chart))
	for _, c := range chart {
		row := []string{c.Date}
		for _, s := range tracked {
			v, ok := c.Values[s.Name]
			switch {
			case !ok:
				row = append(row, "")
			case math.IsNaN(v):
				row = append(row, "NaN")
			default:
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			}
		}
		rows = append(rows, row)
	}
	writeTable(&b, header, rows)
	return b.String()
}

func tableMarkdown(page series.TablePage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Table (page %d/%d, %d rows)\n\n", page.Page, page.TotalPages, page.TotalRows)
	if len(page.Rows) == 0 {
		b.WriteString(emptyMessage)
		return b.String()
	}
	rows := make([][]string, 0, len(page.Rows))
	for _, r := range page.Rows {
		rows = append(rows, []string{r.DisplayDate, r.Code, r.Name, r.DisplayPrice, r.Change, r.ChangeRate, r.Volume})
	}
	writeTable(&b, []string{"Date", "Code", "Name", "Price", "Change", "Rate %", "Volume"}, rows)
	return b.String()
}

func searchMarkdown(found []symbols.Symbol) string {
	var b strings.Builder
	b.WriteString("# Search results\n\n")
	if len(found) == 0 {
		b.WriteString(emptyMessage)
		return b.String()
	}
	rows := make([][]string, 0, len(found))
	for _, s := range found {
		rows = append(rows, []string{s.Code, s.Name, s.Price, s.ChangeRate, s.Date})
	}
	writeTable(&b, []string{"Code", "Name", "Price", "Rate %", "Date"}, rows)
	return b.String()
}
