package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"stock_dashboard/internal/app/di"
	quotes "stock_dashboard/internal/feature/quotes/domain/entity"
	quotesusecase "stock_dashboard/internal/feature/quotes/usecase"
	symbolsusecase "stock_dashboard/internal/feature/symbols/usecase"
)

var commands = []subcommands.Command{
	&seriesCmd{},
	&chartCmd{},
	&tableCmd{},
	&searchCmd{},
}

// common は全コマンド共通のフラグです。
type common struct {
	market string
	days   int
	raw    bool
}

func (c *common) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.market, "market", "KR", "Market to query (KR or US).")
	f.IntVar(&c.days, "days", quotesusecase.DefaultDays, "Days of history to fetch (1-3650).")
	f.BoolVar(&c.raw, "raw", false, "Print plain markdown instead of rendering it for the terminal.")
}

func (c *common) parseMarket() (quotes.Market, error) {
	return quotes.ParseMarket(c.market)
}

// newQuotes はRedisキャッシュなしでプロバイダーを直接呼ぶユースケースを作ります。
func newQuotes() *quotesusecase.QuotesUsecase {
	return quotesusecase.NewQuotesUsecase(di.NewMarkets(nil, 0).QuoteRepositories())
}

// parseSymbols は "CODE" または "CODE=表示名" の引数を銘柄に変換します。
func parseSymbols(args []string) ([]quotes.TrackedSymbol, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one symbol is required")
	}
	out := make([]quotes.TrackedSymbol, 0, len(args))
	for _, a := range args {
		code, name, _ := strings.Cut(a, "=")
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, fmt.Errorf("invalid symbol %q", a)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			name = code
		}
		out = append(out, quotes.TrackedSymbol{Code: code, Name: name})
	}
	return out, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}

type seriesCmd struct{ common }

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "print the de-duplicated daily series of one symbol, newest first" }
func (*seriesCmd) Usage() string {
	return `quotesctl series [-market KR|US] [-days N] [-raw] <code>
`
}
func (c *seriesCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *seriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	market, err := c.parseMarket()
	if err != nil {
		return fail(err)
	}
	recs, err := newQuotes().Series(ctx, market, f.Arg(0), quotesusecase.ClampDays(c.days))
	if err != nil {
		return fail(err)
	}
	if err := printMarkdown(os.Stdout, seriesMarkdown(market, f.Arg(0), recs), c.raw); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type chartCmd struct{ common }

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "print closing prices of several symbols aligned by date, oldest first" }
func (*chartCmd) Usage() string {
	return `quotesctl chart [-market KR|US] [-days N] [-raw] <code[=name]>...
`
}
func (c *chartCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	market, err := c.parseMarket()
	if err != nil {
		return fail(err)
	}
	symbols, err := parseSymbols(f.Args())
	if err != nil {
		return fail(err)
	}
	rows, err := newQuotes().Chart(ctx, market, symbols, quotesusecase.ClampDays(c.days))
	if err != nil {
		return fail(err)
	}
	if err := printMarkdown(os.Stdout, chartMarkdown(symbols, rows), c.raw); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type tableCmd struct {
	common
	filter string
	page   int
}

func (*tableCmd) Name() string     { return "table" }
func (*tableCmd) Synopsis() string { return "print one page of the per-symbol, per-date table, newest first" }
func (*tableCmd) Usage() string {
	return `quotesctl table [-market KR|US] [-days N] [-filter code] [-page N] [-raw] <code[=name]>...
`
}

func (c *tableCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.filter, "filter", "", "Only show rows of this symbol code.")
	f.IntVar(&c.page, "page", 1, "Page number (10 rows per page).")
}

func (c *tableCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	market, err := c.parseMarket()
	if err != nil {
		return fail(err)
	}
	symbols, err := parseSymbols(f.Args())
	if err != nil {
		return fail(err)
	}
	page, err := newQuotes().Table(ctx, market, symbols, quotesusecase.ClampDays(c.days), c.filter, c.page)
	if err != nil {
		return fail(err)
	}
	if err := printMarkdown(os.Stdout, tableMarkdown(page), c.raw); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type searchCmd struct {
	market string
	raw    bool
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search listed symbols by name or code" }
func (*searchCmd) Usage() string {
	return `quotesctl search [-market KR|US] [-raw] <query>
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.market, "market", "KR", "Market to search (KR or US).")
	f.BoolVar(&c.raw, "raw", false, "Print plain markdown instead of rendering it for the terminal.")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	market, err := quotes.ParseMarket(c.market)
	if err != nil {
		return fail(err)
	}
	uc := symbolsusecase.NewSymbolUsecase(di.NewMarkets(nil, 0).SymbolSources())
	found, err := uc.Search(ctx, market, strings.Join(f.Args(), " "))
	if err != nil {
		return fail(err)
	}
	if err := printMarkdown(os.Stdout, searchMarkdown(found), c.raw); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
