package main

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quotes "stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/quotes/domain/series"
	symbols "stock_dashboard/internal/feature/symbols/domain/entity"
)

func TestParseSymbols(t *testing.T) {
	t.Parallel()

	got, err := parseSymbols([]string{"005930=삼성전자", "AAPL", " MSFT = Microsoft "})
	require.NoError(t, err)
	assert.Equal(t, []quotes.TrackedSymbol{
		{Code: "005930", Name: "삼성전자"},
		{Code: "AAPL", Name: "AAPL"},
		{Code: "MSFT", Name: "Microsoft"},
	}, got)

	_, err = parseSymbols(nil)
	assert.Error(t, err)
	_, err = parseSymbols([]string{"=name only"})
	assert.Error(t, err)
}

func TestSeriesMarkdown(t *testing.T) {
	t.Parallel()

	md := seriesMarkdown(quotes.MarketKR, "005930", []quotes.QuoteRecord{
		{Date: "20240102", Close: "71000", Change: "500", ChangeRate: "0.71", Open: "70500", High: "71200", Low: "70100", Volume: "1234567"},
	})

	assert.Equal(t, "# KR 005930\n\n"+
		"| Date | Close | Change | Rate % | Open | High | Low | Volume |\n"+
		"|---|---|---|---|---|---|---|---|\n"+
		"| 20240102 | 71000 | 500 | 0.71 | 70500 | 71200 | 70100 | 1234567 |\n", md)

	assert.Contains(t, seriesMarkdown(quotes.MarketUS, "AAPL", nil), "데이터가 없습니다")
}

func TestChartMarkdown_SparseColumns(t *testing.T) {
	t.Parallel()

	tracked := []quotes.TrackedSymbol{{Code: "A", Name: "Alpha"}, {Code: "B", Name: "Beta"}}
	md := chartMarkdown(tracked, []series.ChartRow{
		{Date: "20240101", Values: map[string]float64{"Alpha": 11}},
		{Date: "20240102", Values: map[string]float64{"Alpha": 12.5, "Beta": math.NaN()}},
	})

	assert.Contains(t, md, "| Date | Alpha | Beta |\n")
	assert.Contains(t, md, "| 20240101 | 11 |  |\n")
	assert.Contains(t, md, "| 20240102 | 12.5 | NaN |\n")
}

func TestTableMarkdown(t *testing.T) {
	t.Parallel()

	md := tableMarkdown(series.TablePage{
		Rows: []series.TableRow{{
			Code: "005930", Name: "삼성전자", DisplayPrice: "₩71,000", Change: "500",
			ChangeRate: "0.71", Volume: "1,234,567", DisplayDate: "2024-01-02",
		}},
		Page: 1, PerPage: 10, TotalRows: 1, TotalPages: 1,
	})

	assert.Contains(t, md, "# Table (page 1/1, 1 rows)")
	assert.Contains(t, md, "| 2024-01-02 | 005930 | 삼성전자 | ₩71,000 | 500 | 0.71 | 1,234,567 |")
	assert.Contains(t, tableMarkdown(series.TablePage{Page: 1}), "데이터가 없습니다")
}

func TestSearchMarkdown(t *testing.T) {
	t.Parallel()

	md := searchMarkdown([]symbols.Symbol{{Code: "AAPL", Name: "Apple Inc", Price: "0", ChangeRate: "0", Date: "20240315"}})

	assert.Contains(t, md, "| AAPL | Apple Inc | 0 | 0 | 20240315 |")
}

func TestPrintMarkdown(t *testing.T) {
	t.Parallel()

	var raw bytes.Buffer
	require.NoError(t, printMarkdown(&raw, "# Title\n", true))
	assert.Equal(t, "# Title\n", raw.String())

	var rendered bytes.Buffer
	require.NoError(t, printMarkdown(&rendered, "# Title\n", false))
	assert.Contains(t, rendered.String(), "Title")
}
