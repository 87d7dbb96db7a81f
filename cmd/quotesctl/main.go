// quotesctl は株価系列・チャート・テーブル・銘柄検索をターミナルで確認するためのCLIです。
// サーバーと同じ環境変数（KOREA_STOCK_API_KEY, ALPHA_VANTAGE_API_KEYなど）を使います。
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"

	"stock_dashboard/internal/platform/config"
	"stock_dashboard/internal/platform/logger"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range commands {
		commander.Register(c, "quotes")
	}

	flag.Parse()

	setupLogging(os.Stderr)

	os.Exit(int(commander.Execute(context.Background())))
}

// setupLogging は.envを読み込み、LOG_LEVELに従ってwへ出力するロガーを既定にします。
// .envの読み込みに失敗しても処理は続けます。
func setupLogging(w io.Writer) {
	envErr := config.LoadDotEnv()
	slog.SetDefault(logger.New(w, os.Getenv("LOG_LEVEL"), "text"))
	if envErr != nil {
		slog.Warn("failed to load .env", "error", envErr)
	}
}
